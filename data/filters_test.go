package data

import (
	"testing"

	"github.com/emzola/bookworm/internal/validator"
	"github.com/stretchr/testify/assert"
)

func TestSortColumn(t *testing.T) {
	f := Filters{Sort: "-created_at", SortSafeList: []string{"created_at", "-created_at"}}
	assert.Equal(t, "created_at", f.SortColumn())

	f.Sort = "created_at"
	assert.Equal(t, "created_at", f.SortColumn())

	f.Sort = "id; DROP TABLE books"
	assert.Panics(t, func() { f.SortColumn() })
}

func TestSortDirection(t *testing.T) {
	f := Filters{Sort: "-created_at", SortSafeList: []string{"created_at", "-created_at"}}
	assert.Equal(t, "DESC", f.SortDirection())

	f.Sort = "created_at"
	assert.Equal(t, "ASC", f.SortDirection())
}

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		valid   bool
	}{
		{"valid", Filters{Page: 1, PageSize: 20, Sort: "created_at", SortSafeList: []string{"created_at"}}, true},
		{"zero page", Filters{Page: 0, PageSize: 20, Sort: "created_at", SortSafeList: []string{"created_at"}}, false},
		{"page too large", Filters{Page: 10_000_001, PageSize: 20, Sort: "created_at", SortSafeList: []string{"created_at"}}, false},
		{"zero page size", Filters{Page: 1, PageSize: 0, Sort: "created_at", SortSafeList: []string{"created_at"}}, false},
		{"page size too large", Filters{Page: 1, PageSize: 101, Sort: "created_at", SortSafeList: []string{"created_at"}}, false},
		{"unsafe sort", Filters{Page: 1, PageSize: 20, Sort: "evil", SortSafeList: []string{"created_at"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(v, tt.filters)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestCalculateMetadata(t *testing.T) {
	metadata := CalculateMetadata(103, 2, 20)
	assert.Equal(t, 2, metadata.CurrentPage)
	assert.Equal(t, 20, metadata.PageSize)
	assert.Equal(t, 1, metadata.FirstPage)
	assert.Equal(t, 6, metadata.LastPage)
	assert.Equal(t, 103, metadata.TotalRecords)

	assert.Equal(t, Metadata{}, CalculateMetadata(0, 1, 20))
}
