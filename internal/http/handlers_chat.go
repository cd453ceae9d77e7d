package httpx

import (
	"net/http"
)

// ChatPage renders the question form.
// GET /.
func (h *UIHandlers) ChatPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, newPageData(PageChat))
}

// Query asks the backend a question and renders the answer.
// POST /query.
func (h *UIHandlers) Query(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	data := newPageData(PageChat)
	if err := r.ParseForm(); err != nil {
		data.Status = http.StatusBadRequest
		data.Error = "Formulário inválido."
		h.render(w, r, data)
		return
	}
	data.Question = r.PostFormValue("question")

	answer, err := scope.API.Query(r.Context(), data.Question)
	if err != nil {
		h.renderFailure(w, r, scope, data, err)
		return
	}
	data.Answer = answer
	h.render(w, r, data)
}
