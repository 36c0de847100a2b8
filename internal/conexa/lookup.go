package conexa

import (
	"context"
	"net/http"
	"net/url"
)

// AccessibleUnits lista as unidades acessíveis ao usuário logado.
// O recorte por papel é feito pelo backend.
func (c *Client) AccessibleUnits(ctx context.Context, token string) ([]Unit, error) {
	var units []Unit
	if err := c.do(ctx, http.MethodGet, "/lookup/units/accessible", nil, token, nil, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// AccessibleClassrooms lista as turmas acessíveis, opcionalmente filtradas
// por unidade.
func (c *Client) AccessibleClassrooms(ctx context.Context, token, unitID string) ([]Classroom, error) {
	var query url.Values
	if unitID != "" {
		query = url.Values{"unitId": []string{unitID}}
	}

	var classrooms []Classroom
	if err := c.do(ctx, http.MethodGet, "/lookup/classrooms/accessible", query, token, nil, &classrooms); err != nil {
		return nil, err
	}
	return classrooms, nil
}

// AccessibleTeachers lista as professoras acessíveis, opcionalmente
// filtradas por unidade.
func (c *Client) AccessibleTeachers(ctx context.Context, token, unitID string) ([]TeacherSummary, error) {
	var query url.Values
	if unitID != "" {
		query = url.Values{"unitId": []string{unitID}}
	}

	var teachers []TeacherSummary
	if err := c.do(ctx, http.MethodGet, "/lookup/teachers/accessible", query, token, nil, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}
