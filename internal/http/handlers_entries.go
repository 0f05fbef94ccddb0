package http

import (
	"bytes"
	"errors"
	"net/http"

	"finman/internal/core"
	applog "finman/internal/log"
	"finman/internal/presenter"
)

type rowView struct {
	Index int
	Text  string
}

type pageView struct {
	Rows   []rowView
	Labels presenter.Labels
	Form   presenter.Form
	Kinds  []string
	Notice *presenter.Notice
}

func newPageView(s presenter.Screen) pageView {
	rows := make([]rowView, len(s.Rows))
	for i, text := range s.Rows {
		rows[i] = rowView{Index: i, Text: text}
	}
	kinds := make([]string, 0, 2)
	for _, k := range core.Kinds() {
		kinds = append(kinds, k.String())
	}
	return pageView{Rows: rows, Labels: s.Labels, Form: s.Form, Kinds: kinds, Notice: s.Notice}
}

// statusFor maps a ledger error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidKind):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	s.renderPage(w, r, http.StatusOK, s.presenter.Current())
}

// handleScreen renders the rows and summary labels partial.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	body, ok := s.render(w, r, "screen", newPageView(s.presenter.Current()))
	if !ok {
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		unreadable(w, r, parser, err)
		return
	}

	screen, err := s.presenter.Submit(r.Context(), ParseEntryForm(parser))
	if err != nil {
		s.recordRejected()
		s.respondRejected(w, r, screen, err)
		return
	}
	s.recordAdded()

	if !isHTMX(r) {
		s.renderPage(w, r, http.StatusOK, screen)
		return
	}
	body, ok := s.render(w, r, "screen", newPageView(screen))
	if !ok {
		return
	}
	NewHTMXResponse().
		TriggerEntryAdded(screen.Touched, screen.Labels.Balance).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction added").
		BodyHTML(body).
		Write(w)
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		unreadable(w, r, parser, err)
		return
	}

	screen, err := s.presenter.Remove(r.Context(), ParseSelection(parser))
	if err != nil {
		s.recordRejected()
		s.respondRejected(w, r, screen, err)
		return
	}
	s.recordRemoved()

	if !isHTMX(r) {
		s.renderPage(w, r, http.StatusOK, screen)
		return
	}
	body, ok := s.render(w, r, "screen", newPageView(screen))
	if !ok {
		return
	}
	NewHTMXResponse().
		TriggerEntryRemoved(screen.Touched, screen.Labels.Balance).
		TriggerSuccessNotification("Transaction removed").
		BodyHTML(body).
		Write(w)
}

// handlePrint shows the three summary lines; the service also logs them.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	screen := s.presenter.Print(r.Context())

	if !isHTMX(r) {
		s.renderPage(w, r, http.StatusOK, screen)
		return
	}
	body, ok := s.render(w, r, "notice", screen.Notice)
	if !ok {
		return
	}
	NewHTMXResponse().
		TriggerNotification(NotificationInfo, screen.Notice.Title, screen.Notice.Message, 0).
		BodyHTML(body).
		Write(w)
}

// unreadable answers a body that could not be parsed: 413 when it was over
// the size limit, 400 otherwise.
func unreadable(w http.ResponseWriter, r *http.Request, parser *RequestBodyParser, err error) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Unreadable request body",
		applog.FieldPath, r.URL.Path,
		applog.FieldError, err,
		applog.FieldErrorType, applog.ErrorTypeValidation)
	if parser.TooLarge() {
		ErrorResponse(http.StatusRequestEntityTooLarge, "Request body too large").Write(w)
		return
	}
	BadRequestError("Invalid request format").Write(w)
}

// respondRejected reports a refused operation. HTMX clients keep their form
// as typed and get a notification; plain form posts get the page back with
// the inputs retained.
func (s *Server) respondRejected(w http.ResponseWriter, r *http.Request, screen presenter.Screen, err error) {
	status := statusFor(err)
	if !isHTMX(r) {
		s.renderPage(w, r, status, screen)
		return
	}

	msg := presenter.Message(err)
	if errors.Is(err, core.ErrNoSelection) {
		WarningResponse(status, msg).TriggerWarningNotification(msg).Write(w)
		return
	}
	ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, screen presenter.Screen) {
	body, ok := s.render(w, r, "index.html", newPageView(screen))
	if !ok {
		return
	}
	NewHTMXResponse().Status(status).BodyHTML(body).Write(w)
}

// render executes a template into memory so that a failure can still produce
// a clean 500 response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) (string, bool) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		InternalServerError("Templates not loaded").Write(w)
		return "", false
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender,
			"template", name)
		InternalServerError("Error rendering page").Write(w)
		return "", false
	}
	return buf.String(), true
}
