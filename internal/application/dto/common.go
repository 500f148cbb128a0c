package dto

// FieldError error de validación de un campo en la respuesta.
type FieldError struct {
	Field     string `json:"field"`
	ErrorCode string `json:"error_code"`
}

// Response sobre común de todas las respuestas JSON.
type Response struct {
	Success     bool         `json:"success"`
	MessageCode *string      `json:"message_code"`
	Data        any          `json:"data"`
	ErrorCode   *string      `json:"error_code"`
	Errors      []FieldError `json:"errors"`
}

// Pagination metadatos de página en listados.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"totalPages"`
}

// ListData contenido de "data" en los listados.
type ListData struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PageRequest paginación por número de página (base 1).
type PageRequest struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// DefaultPage aplica valores por defecto y límites.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Size > 100 {
		p.Size = 100
	}
}

// Offset desplazamiento SQL de la página.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// NewPagination calcula el total de páginas (mínimo 1).
func NewPagination(p PageRequest, total int) Pagination {
	pages := 1
	if p.Size > 0 && total > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return Pagination{Total: total, Page: p.Page, Size: p.Size, TotalPages: pages}
}

// Page resultado paginado de un caso de uso.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
