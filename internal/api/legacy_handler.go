package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/phrazzld/microcase-api/internal/api/shared"
)

// Actions understood by the legacy dispatcher.
const (
	ActionList      = "list"
	ActionPublished = "published"
	ActionGet       = "get"
	ActionSubmit    = "submit"
)

// LegacyHandler serves /api/micro_cases?action=..., the single endpoint
// older players call. It dispatches to the same operations as the REST
// routes.
type LegacyHandler struct {
	cases *MicroCaseHandler
}

// NewLegacyHandler creates a dispatcher over the given handler.
func NewLegacyHandler(cases *MicroCaseHandler) *LegacyHandler {
	return &LegacyHandler{cases: cases}
}

// ServeHTTP picks the action from the query string, or from the JSON body
// of a POST, defaulting to "list".
func (h *LegacyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" && r.Method == http.MethodPost {
		action = peekBodyAction(r)
	}
	if action == "" {
		action = ActionList
	}

	switch {
	case r.Method == http.MethodGet && (action == ActionList || action == ActionPublished):
		h.cases.listCases(w, r, r.URL.Query().Get("status"))

	case r.Method == http.MethodGet && action == ActionGet:
		caseID, err := parseCaseID(r.URL.Query().Get("id"))
		if err != nil {
			respondCaseIDError(w, r, err)
			return
		}
		h.cases.getCase(w, r, caseID)

	case action == ActionSubmit:
		if r.Method != http.MethodPost {
			shared.RespondWithError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed)
			return
		}
		h.cases.SubmitAttempt(w, r)

	default:
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeInvalidAction)
	}
}

// peekBodyAction reads the "action" field of a JSON body and restores the
// body for the handler that runs next.
func peekBodyAction(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, shared.MaxBodyBytes))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var envelope struct {
		Action string `json:"action"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return ""
	}
	return envelope.Action
}
