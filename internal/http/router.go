package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/vml-arquivos/font-conexa-v2/internal/audit"
	"github.com/vml-arquivos/font-conexa-v2/internal/compras"
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/config"
	"github.com/vml-arquivos/font-conexa-v2/internal/diario"
	httpmiddleware "github.com/vml-arquivos/font-conexa-v2/internal/http/middleware"
	"github.com/vml-arquivos/font-conexa-v2/internal/roles"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

// Handler concentra as dependências dos endpoints de sessão e lookup.
type Handler struct {
	cfg           *config.Config
	backend       *conexa.Client
	sessions      *session.Manager
	validate      *validator.Validate
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve o roteador configurado com todos os módulos.
func NewRouter(
	cfg *config.Config,
	backend *conexa.Client,
	sessions *session.Manager,
	recorder *audit.Recorder,
	comprasService *compras.Service,
	diarioService *diario.Service,
) http.Handler {
	h := &Handler{
		cfg:           cfg,
		backend:       backend,
		sessions:      sessions,
		validate:      validator.New(),
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	comprasHandler := compras.NewHandler(comprasService, sessions)
	diarioHandler := diario.NewHandler(diarioService, sessions)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/refresh", h.Refresh)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(sessions))
		private.Use(httpmiddleware.SessionRateLimit(h.authLimiter))

		private.Get("/me", h.Me)
		private.Post("/auth/logout", h.Logout)

		private.Get("/lookup/units/accessible", h.LookupUnits)
		private.Get("/lookup/classrooms/accessible", h.LookupClassrooms)
		private.Get("/lookup/teachers/accessible", h.LookupTeachers)

		private.Group(func(diarioGroup chi.Router) {
			diarioGroup.Use(httpmiddleware.RequireRoles(recorder, roles.Professor, roles.Unidade))
			diario.Mount(diarioGroup, diarioHandler)
		})

		private.Group(func(requisicoes chi.Router) {
			requisicoes.Use(httpmiddleware.RequireRoles(recorder, roles.Professor, roles.Unidade))
			comprasHandler.RegisterRequisicaoRoutes(requisicoes)
		})

		private.Group(func(pedidos chi.Router) {
			pedidos.Use(httpmiddleware.RequireRoles(recorder,
				roles.Unidade, roles.StaffCentral, roles.Mantenedora, roles.Developer))
			comprasHandler.RegisterPedidoRoutes(pedidos)
		})
	})

	return r
}
