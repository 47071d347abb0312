package dto

// Tamaños de página de los listados.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest ventana limit/offset pedida por el cliente.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Clamp lleva Limit a [1, MaxPageSize] (cero o negativo toma DefaultPageSize)
// y Offset a >= 0.
func (p *PageRequest) Clamp() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	p.Offset = max(p.Offset, 0)
}

// PageResponse ventana efectiva y total de filas que cumplen el filtro.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de toda respuesta de error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
