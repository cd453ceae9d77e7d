package model

import "strings"

// SortOrder is the direction a table page is sorted in.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether the sort order is supported.
func (o SortOrder) Valid() bool {
	switch o {
	case SortAsc, SortDesc:
		return true
	default:
		return false
	}
}

// ParseSortOrder normalizes a sort order string and reports whether it is supported.
func ParseSortOrder(value string) (SortOrder, bool) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(value)))
	if order.Valid() {
		return order, true
	}
	return "", false
}

// TableList is the set of imported tables known to the backend.
type TableList struct {
	Tables []string `json:"tables"`
	Count  int      `json:"count"`
}

// Pagination describes where a TablePage sits in the full result set.
type Pagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalRecords int `json:"total_records"`
	TotalPages   int `json:"total_pages"`
}

// HasPrev reports whether a page precedes this one.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a page follows this one.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// TablePage is one page of rows from a table.
// Rows keep the backend's column values as decoded JSON.
type TablePage struct {
	TableName  string           `json:"table_name"`
	Data       []map[string]any `json:"data"`
	Pagination Pagination       `json:"pagination"`
	Columns    []string         `json:"columns"`
}

// Row returns the values of row i ordered by Columns. Missing cells are nil.
func (p *TablePage) Row(i int) []any {
	if i < 0 || i >= len(p.Data) {
		return nil
	}
	out := make([]any, len(p.Columns))
	for j, col := range p.Columns {
		out[j] = p.Data[i][col]
	}
	return out
}
