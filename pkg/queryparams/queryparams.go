package queryparams

import "strings"

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams liste uçlarının ortak sayfalama/sıralama parametreleri.
type ListParams struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	SortBy  string `query:"sort_by"`
	SortDir string `query:"sort_dir"`
	Query   string `query:"q"`
}

// DefaultListParams verilen sıralama sütunuyla varsayılan parametreleri üretir.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		SortBy:  sortBy,
		SortDir: "desc",
	}
}

// Validate sınır dışı değerleri varsayılanlara çeker.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 || p.PerPage > MaxPerPage {
		p.PerPage = DefaultPerPage
	}
	dir := strings.ToLower(p.SortDir)
	if dir != "asc" && dir != "desc" {
		p.SortDir = "desc"
	} else {
		p.SortDir = dir
	}
}

// Offset SQL offset değerini döndürür.
func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// OrderClause güvenli bir ORDER BY ifadesi üretir. SortBy izin listesinde
// yoksa fallback sütunu kullanılır (SQL enjeksiyonuna kapı açmamak için).
func (p *ListParams) OrderClause(allowed map[string]bool, fallback string) string {
	col := p.SortBy
	if col == "" || !allowed[col] {
		col = fallback
	}
	return col + " " + p.SortDir
}

// PaginationMeta sayfalama üst verisi.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResult liste yanıtlarının ortak zarfı.
type PaginatedResult struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResult meta alanlarını hesaplayarak zarfı kurar.
func NewPaginatedResult(data interface{}, params ListParams, totalItems int64) *PaginatedResult {
	totalPages := int(totalItems) / params.PerPage
	if int(totalItems)%params.PerPage != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return &PaginatedResult{
		Data: data,
		Meta: PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalItems,
			TotalPages:  totalPages,
		},
	}
}
