package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
)

// TableDataParams selects a page of a table. Zero Page, PageSize and SortOrder
// take the service defaults. Search is sent only when non-empty; SortBy and
// SortOrder are sent only when SortBy is non-empty.
type TableDataParams struct {
	Table     string
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder model.SortOrder
}

// ListTables returns the imported tables.
func (s *Service) ListTables(ctx context.Context) (*model.TableList, error) {
	var out model.TableList
	if err := s.client.DoJSON(ctx, apiclient.Request{Method: http.MethodGet, Path: "/tables"}, &out); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return &out, nil
}

// GetTableData returns one page of rows from a table.
func (s *Service) GetTableData(ctx context.Context, p TableDataParams) (*model.TablePage, error) {
	query, err := s.tableQuery(p)
	if err != nil {
		return nil, err
	}

	var out model.TablePage
	req := apiclient.Request{
		Method: http.MethodGet,
		Path:   "/tables/" + url.PathEscape(p.Table) + "/data",
		Query:  query,
	}
	if err := s.client.DoJSON(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("get table data %q: %w", p.Table, err)
	}
	return &out, nil
}

func (s *Service) tableQuery(p TableDataParams) (url.Values, error) {
	if strings.TrimSpace(p.Table) == "" {
		return nil, apperrors.ValidationField("table", "table name is required")
	}

	page := p.Page
	switch {
	case page == 0:
		page = s.defaults.Page
	case page < 0:
		return nil, apperrors.ValidationField("page", "page must be >= 1")
	}

	size := p.PageSize
	switch {
	case size == 0:
		size = s.defaults.PageSize
	case size < 0:
		return nil, apperrors.ValidationField("page_size", "page_size must be > 0")
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		order := p.SortOrder
		if order == "" {
			order = s.defaults.SortOrder
		}
		if !order.Valid() {
			return nil, apperrors.ValidationField("sort_order", "sort_order must be asc or desc")
		}
		q.Set("sort_by", p.SortBy)
		q.Set("sort_order", string(order))
	}
	return q, nil
}
