package httpx

import (
	"net/http"

	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	"github.com/interview-ai/datasheet-ui/internal/router"
)

// AuthPage renders the login/register form.
// GET /auth.
func (h *UIHandlers) AuthPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, newPageData(PageLogin))
}

// Login exchanges the form credentials for a token cookie.
// POST /auth/login.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, false)
}

// Register creates an account and signs it in.
// POST /auth/register.
func (h *UIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, true)
}

// Logout clears the token cookie and redirects to the login page.
// POST /auth/logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	scope.API.Logout(r.Context())
}

func (h *UIHandlers) authenticate(w http.ResponseWriter, r *http.Request, register bool) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		data := newPageData(PageLogin)
		data.Status = http.StatusBadRequest
		data.Error = "Formulário inválido."
		h.render(w, r, data)
		return
	}

	creds := model.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	var err error
	if register {
		_, err = scope.API.Register(r.Context(), creds)
	} else {
		_, err = scope.API.Login(r.Context(), creds)
	}
	if err != nil {
		data := newPageData(PageLogin)
		data.Username = creds.Username
		h.renderFailure(w, r, scope, data, err)
		return
	}

	scope.Nav.Navigate(r.Context(), router.HomePath)
}
