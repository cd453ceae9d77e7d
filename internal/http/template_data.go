package httpx

import (
	"net/url"
	"strconv"

	"github.com/interview-ai/datasheet-ui/internal/api"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
)

// PageData is the view model shared by every page template.
type PageData struct {
	// Status is the HTTP status the page is written with; zero means 200.
	Status      int
	Title       string
	CurrentPage string
	ShowNav     bool
	Error       string
	Flash       string
	CSRFToken   string

	// login
	Username string

	// chat
	Question string
	Answer   *model.QueryResult

	// datasheets
	Tables   *model.TableList
	Selected string
	Page     *model.TablePage
	Params   api.TableDataParams
}

// PageURL links to another page of the selected table, keeping filters.
func (d PageData) PageURL(page int) string {
	q := url.Values{}
	q.Set("table", d.Selected)
	q.Set("page", strconv.Itoa(page))
	if d.Params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(d.Params.PageSize))
	}
	if d.Params.Search != "" {
		q.Set("search", d.Params.Search)
	}
	if d.Params.SortBy != "" {
		q.Set("sort_by", d.Params.SortBy)
		q.Set("sort_order", string(d.Params.SortOrder))
	}
	return "/datasheets?" + q.Encode()
}

func newPageData(page string) PageData {
	return PageData{
		Title:       pageTitles[page],
		CurrentPage: page,
		ShowNav:     page != PageLogin,
	}
}
