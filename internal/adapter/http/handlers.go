package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/couchcryptid/bird-observations-service/internal/adapter/xlsx"
	"github.com/couchcryptid/bird-observations-service/internal/catalog"
	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/couchcryptid/bird-observations-service/internal/query"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// loadingMessage is shown until the first load attempt finishes.
const loadingMessage = "Loading bird observations..."

const maxQueryBody = 64 << 10

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Rows        []domain.DisplayRow
	LoadMessage string
	Query       string
	QueryError  string
	AnswerHTML  template.HTML
}

type queryRequest struct {
	APIKey string `json:"api_key"`
	Query  string `json:"query"`
}

type queryResponse struct {
	ID         string `json:"id,omitempty"`
	Model      string `json:"model,omitempty"`
	Answer     string `json:"answer,omitempty"`
	AnswerHTML string `json:"answer_html,omitempty"`
	Error      string `json:"error,omitempty"`
}

type observationsResponse struct {
	Rows     []domain.DisplayRow `json:"rows"`
	Stats    domain.MapStats     `json:"stats"`
	LoadedAt time.Time           `json:"loaded_at"`
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, s.basePage())
}

func (s *Server) handlePageQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBody)
	if err := r.ParseForm(); err != nil {
		data := s.basePage()
		data.QueryError = "Invalid form submission."
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	data := s.basePage()
	data.Query = r.PostFormValue("query")

	res, err := s.asker.Ask(r.Context(), query.Request{
		APIKey: r.PostFormValue("api_key"),
		Query:  data.Query,
	})
	if err != nil {
		data.QueryError = query.UserMessage(err)
		s.renderPage(w, statusFor(err), data)
		return
	}

	data.AnswerHTML = template.HTML(s.markdown.ToHTML(res.Answer)) //nolint:gosec // goldmark output with raw HTML omitted
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) handleObservations(w http.ResponseWriter, _ *http.Request) {
	snap := s.catalog.Snapshot()
	if snap == nil {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": s.loadMessage()})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, observationsResponse{
		Rows:     snap.Rows,
		Stats:    snap.Stats,
		LoadedAt: snap.LoadedAt,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBody)).Decode(&req); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, queryResponse{Error: "invalid request body"})
		return
	}

	res, err := s.asker.Ask(r.Context(), query.Request{APIKey: req.APIKey, Query: req.Query})
	if err != nil {
		sharedobs.WriteJSON(w, statusFor(err), queryResponse{Error: query.UserMessage(err)})
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, queryResponse{
		ID:         res.ID,
		Model:      res.Model,
		Answer:     res.Answer,
		AnswerHTML: s.markdown.ToHTML(res.Answer),
	})
}

func (s *Server) handleCSV(w http.ResponseWriter, _ *http.Request) {
	snap := s.catalog.Snapshot()
	if snap == nil {
		http.Error(w, s.loadMessage(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(snap.RawCSV)); err != nil {
		s.logger.Warn("write csv response failed", "error", err)
	}
}

func (s *Server) handleXLSX(w http.ResponseWriter, _ *http.Request) {
	snap := s.catalog.Snapshot()
	if snap == nil {
		http.Error(w, s.loadMessage(), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf, snap.Rows); err != nil {
		s.logger.Error("xlsx export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="hk_birds.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("write xlsx response failed", "error", err)
	}
}

func (s *Server) basePage() pageData {
	if snap := s.catalog.Snapshot(); snap != nil {
		return pageData{Rows: snap.Rows}
	}
	return pageData{LoadMessage: s.loadMessage()}
}

// loadMessage is the static text shown in place of the table while no rows
// are available.
func (s *Server) loadMessage() string {
	if err := s.catalog.Err(); err != nil {
		return err.Message()
	}
	return loadingMessage
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("write page failed", "error", err)
	}
}

// statusFor maps an Ask error to the response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAPIKey), errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCSVNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

var _ Catalog = (*catalog.Catalog)(nil)
