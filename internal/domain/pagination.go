package domain

const (
	DefaultPage     = 1
	DefaultPerPage  = 10
	FallbackPerPage = 20
	MaxPerPage      = 100
)

// Pagination descreve a página devolvida em listagens.
type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NormalizePage aplica os limites de paginação: página mínima 1, per_page acima do
// máximo vira o máximo e valores não positivos voltam ao padrão de fallback.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if perPage < 1 {
		perPage = FallbackPerPage
	}
	return page, perPage
}

// NewPagination calcula total de páginas e navegação a partir do total de itens.
func NewPagination(page, perPage, total int) Pagination {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
