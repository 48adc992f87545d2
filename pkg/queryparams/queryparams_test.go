package queryparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClampsOutOfRange(t *testing.T) {
	p := ListParams{Page: -3, PerPage: 5000, SortDir: "DROP TABLE"}
	p.Validate()

	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, "desc", p.SortDir)
}

func TestValidateKeepsValidValues(t *testing.T) {
	p := ListParams{Page: 3, PerPage: 50, SortDir: "ASC"}
	p.Validate()

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, "asc", p.SortDir)
}

func TestOffset(t *testing.T) {
	p := ListParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())

	p = ListParams{Page: 1, PerPage: 20}
	assert.Equal(t, 0, p.Offset())
}

// OrderClause izin listesi dışındaki sütunları fallback'e düşürmeli;
// sıralama parametresi SQL'e ham geçen tek yer burasıdır.
func TestOrderClauseRejectsUnknownColumns(t *testing.T) {
	allowed := map[string]bool{"created_at": true, "title": true}

	p := ListParams{SortBy: "title; DROP TABLE events--", SortDir: "desc"}
	p.Validate()
	assert.Equal(t, "created_at desc", p.OrderClause(allowed, "created_at"))

	p = ListParams{SortBy: "title", SortDir: "asc"}
	p.Validate()
	assert.Equal(t, "title asc", p.OrderClause(allowed, "created_at"))

	p = ListParams{}
	p.Validate()
	assert.Equal(t, "created_at desc", p.OrderClause(allowed, "created_at"))
}

func TestNewPaginatedResult(t *testing.T) {
	params := DefaultListParams("created_at")

	result := NewPaginatedResult([]string{"a", "b"}, params, 45)
	assert.Equal(t, 1, result.Meta.CurrentPage)
	assert.Equal(t, 20, result.Meta.PerPage)
	assert.Equal(t, int64(45), result.Meta.TotalItems)
	assert.Equal(t, 3, result.Meta.TotalPages)

	empty := NewPaginatedResult([]string{}, params, 0)
	assert.Equal(t, 1, empty.Meta.TotalPages)
}
