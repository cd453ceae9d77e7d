package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/interview-ai/datasheet-ui/internal/api"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
)

// Datasheets lists the tables and, when ?table= is set, one page of its rows.
// GET /datasheets?table=&page=&page_size=&search=&sort_by=&sort_order=.
func (h *UIHandlers) Datasheets(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	data := newPageData(PageDatasheets)
	data.Flash = r.URL.Query().Get("imported")

	tables, err := scope.API.ListTables(r.Context())
	if err != nil {
		h.renderFailure(w, r, scope, data, err)
		return
	}
	data.Tables = tables

	params, err := tableParams(r.URL.Query())
	if err != nil {
		h.renderFailure(w, r, scope, data, err)
		return
	}
	if params.Table == "" {
		h.render(w, r, data)
		return
	}

	data.Selected = params.Table
	data.Params = withDefaults(params, scope.API.Defaults())
	page, err := scope.API.GetTableData(r.Context(), params)
	if err != nil {
		h.renderFailure(w, r, scope, data, err)
		return
	}
	data.Page = page
	h.render(w, r, data)
}

// Upload imports a spreadsheet and redirects to the imported table.
// POST /datasheets/upload.
func (h *UIHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	data := newPageData(PageDatasheets)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderFailure(w, r, scope, data, apperrors.ValidationField("file", "arquivo inválido ou grande demais"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderFailure(w, r, scope, data, apperrors.ValidationField("file", "selecione um arquivo .xlsx ou .xls"))
		return
	}
	defer func() { _ = file.Close() }()

	res, err := scope.API.UploadSpreadsheet(r.Context(), api.Upload{
		Filename:  header.Filename,
		Content:   file,
		TableName: r.FormValue("table_name"),
	})
	if err != nil {
		h.renderFailure(w, r, scope, data, err)
		return
	}

	q := url.Values{}
	q.Set("table", res.Details.TableName)
	q.Set("imported", fmt.Sprintf("%d linhas importadas de %s", res.Details.RowsImported, res.Details.Filename))
	scope.Nav.Navigate(r.Context(), "/datasheets?"+q.Encode())
}

// tableParams reads table-data parameters from the query string. Absent
// numbers stay zero so the service applies its defaults.
func tableParams(q url.Values) (api.TableDataParams, error) {
	p := api.TableDataParams{
		Table:     q.Get("table"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: model.SortOrder(q.Get("sort_order")),
	}
	var err error
	if p.Page, err = queryInt(q, "page"); err != nil {
		return p, err
	}
	if p.PageSize, err = queryInt(q, "page_size"); err != nil {
		return p, err
	}
	if p.SortOrder != "" {
		order, ok := model.ParseSortOrder(string(p.SortOrder))
		if !ok {
			return p, apperrors.ValidationField("sort_order", "sort_order must be asc or desc")
		}
		p.SortOrder = order
	}
	return p, nil
}

func queryInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, apperrors.ValidationField(key, key+" must be a number")
		}
		return 0, err
	}
	return n, nil
}

// withDefaults fills zero params the way the service will, for rendering links.
func withDefaults(p api.TableDataParams, d api.Defaults) api.TableDataParams {
	if p.Page == 0 {
		p.Page = d.Page
	}
	if p.PageSize == 0 {
		p.PageSize = d.PageSize
	}
	if p.SortOrder == "" {
		p.SortOrder = d.SortOrder
	}
	return p
}
