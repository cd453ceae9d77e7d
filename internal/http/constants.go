package httpx

// CurrentPage constants identify the view rendered for a page.
// They match the template file names under web/templates.
const (
	PageLogin      = "login"
	PageChat       = "chat"
	PageDatasheets = "datasheets"
	PageError      = "error"
)

// pageTitles maps a page to its document title.
var pageTitles = map[string]string{
	PageLogin:      "Entrar",
	PageChat:       "Chat",
	PageDatasheets: "Datasheets",
	PageError:      "Erro",
}

const (
	// maxUploadBytes bounds the multipart body accepted by the upload form.
	maxUploadBytes = 32 << 20

	// TemplatePathFromRoot is the on-disk template directory used in dev mode.
	TemplatePathFromRoot = "web/templates"
)
