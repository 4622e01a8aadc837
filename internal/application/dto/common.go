package dto

import "time"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// DateRangeRequest rango de fechas YYYY-MM-DD (ambos extremos incluidos).
type DateRangeRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// Bounds convierte el rango en instantes UTC: [from 00:00, to+1 00:00).
// Devuelve nil para los extremos vacíos.
func (r DateRangeRequest) Bounds() (from, to *time.Time, err error) {
	if r.From != "" {
		t, err := time.Parse("2006-01-02", r.From)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if r.To != "" {
		t, err := time.Parse("2006-01-02", r.To)
		if err != nil {
			return nil, nil, err
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

// ErrorResponse cuerpo de error HTTP. Details lista campos inválidos o el estado esperado.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
