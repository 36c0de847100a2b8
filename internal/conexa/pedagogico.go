package conexa

import (
	"context"
	"net/http"
	"net/url"
)

// PlanningFilter restringe a listagem de planejamentos.
type PlanningFilter struct {
	ClassroomID string
	Status      StatusPlanejamento
}

// ListPlannings lista planejamentos acessíveis ao usuário, com filtros.
func (c *Client) ListPlannings(ctx context.Context, token string, filter PlanningFilter) ([]Planning, error) {
	query := url.Values{}
	if filter.ClassroomID != "" {
		query.Set("classroomId", filter.ClassroomID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var plannings []Planning
	if err := c.do(ctx, http.MethodGet, "/plannings", query, token, nil, &plannings); err != nil {
		return nil, err
	}
	return plannings, nil
}

// CurriculumFilter restringe a listagem de entradas da matriz curricular.
type CurriculumFilter struct {
	CurriculumMatrixID string
	StartDate          string
	EndDate            string
}

// ListCurriculumEntries lista entradas da matriz no intervalo de datas.
func (c *Client) ListCurriculumEntries(ctx context.Context, token string, filter CurriculumFilter) ([]CurriculumEntry, error) {
	query := url.Values{}
	query.Set("curriculumMatrixId", filter.CurriculumMatrixID)
	query.Set("startDate", filter.StartDate)
	query.Set("endDate", filter.EndDate)

	var entries []CurriculumEntry
	if err := c.do(ctx, http.MethodGet, "/curriculum-matrix-entries", query, token, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListDiaryEvents lista os registros de diário acessíveis ao usuário.
func (c *Client) ListDiaryEvents(ctx context.Context, token string) ([]DiaryEvent, error) {
	var events []DiaryEvent
	if err := c.do(ctx, http.MethodGet, "/diary-events", nil, token, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateDiaryEventInput é o payload de criação de registro de diário.
type CreateDiaryEventInput struct {
	Title             string `json:"title"`
	Date              string `json:"date"`
	Description       string `json:"description,omitempty"`
	PlanningID        string `json:"planningId"`
	CurriculumEntryID string `json:"curriculumEntryId"`
	ClassroomID       string `json:"classroomId"`
}

// CreateDiaryEvent registra um diário no backend.
func (c *Client) CreateDiaryEvent(ctx context.Context, token string, input CreateDiaryEventInput) (DiaryEvent, error) {
	var event DiaryEvent
	if err := c.do(ctx, http.MethodPost, "/diary-events", nil, token, input, &event); err != nil {
		return DiaryEvent{}, err
	}
	return event, nil
}
