package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"survey-service/internal/app"
	"survey-service/internal/domain"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
	maxBodyBytes       = 1 << 20
)

// SurveyHandler serves the question and response endpoints.
type SurveyHandler struct {
	service *app.SurveyService
	log     *zap.Logger
}

func NewSurveyHandler(service *app.SurveyService, log *zap.Logger) *SurveyHandler {
	return &SurveyHandler{service: service, log: log}
}

type typedQuestionView struct {
	ID      int64   `json:"id"`
	Text    string  `json:"question_text"`
	Type    string  `json:"question_type"`
	Options *string `json:"options"`
}

type plainQuestionView struct {
	ID   int64  `json:"id"`
	Text string `json:"question_text"`
}

// Questions handles GET /api/questions?type={quick|details|custom}
func (h *SurveyHandler) Questions(w http.ResponseWriter, r *http.Request) {
	_, questions, err := h.service.QuestionsForVariant(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		h.log.Error("failed to list questions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	typed := h.service.Profile().SupportsTypedQuestions
	out := make([]any, 0, len(questions))
	for _, q := range questions {
		if !typed {
			out = append(out, plainQuestionView{ID: q.ID, Text: q.Text})
			continue
		}
		view := typedQuestionView{ID: q.ID, Text: q.Text, Type: string(q.Type)}
		if q.Type == "" {
			view.Type = string(domain.QuestionTypeText)
		}
		if q.Options != nil {
			// options travel as a JSON-encoded string, matching the stored column
			encoded, err := json.Marshal(q.Options)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			options := string(encoded)
			view.Options = &options
		}
		out = append(out, view)
	}
	writeJSON(w, http.StatusOK, out)
}

type submitRequest struct {
	Responses      json.RawMessage `json:"responses"`
	IsCustomSurvey bool            `json:"isCustomSurvey"`
}

type submitResponse struct {
	Message  string `json:"message"`
	Accepted int    `json:"accepted"`
}

// SubmitResponses handles POST /api/responses
func (h *SurveyHandler) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid responses format")
		return
	}
	entries, err := decodeEntries(req.Responses)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid responses format")
		return
	}

	result, err := h.service.SubmitBatch(r.Context(), entries, req.IsCustomSurvey)
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, "Invalid responses format")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Message:  "Responses saved successfully",
		Accepted: result.Accepted,
	})
}

// decodeEntries requires raw to be a JSON array. Each field of an element is decoded on
// its own: a field of the wrong type reads as absent, and a non-object element reads as an
// empty entry. Validation then decides what to skip.
func decodeEntries(raw json.RawMessage) ([]domain.Entry, error) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, domain.ErrInvalidFormat
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, domain.ErrInvalidFormat
	}

	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			entries = append(entries, domain.Entry{})
			continue
		}
		entry := domain.Entry{
			QuestionText: stringField(fields["question_text"]),
			Answer:       stringField(fields["answer"]),
		}
		if idRaw, ok := fields["question_id"]; ok && string(idRaw) != "null" {
			var id int64
			if err := json.Unmarshal(idRaw, &id); err == nil {
				entry.QuestionID = &id
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// stringField returns the JSON string in raw, or "" for any other value.
func stringField(raw json.RawMessage) string {
	var v string
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return v
}

type responseView struct {
	ID             int64     `json:"id"`
	QuestionID     int64     `json:"question_id"`
	Answer         string    `json:"answer"`
	CreatedAt      time.Time `json:"created_at"`
	CustomQuestion *string   `json:"custom_question,omitempty"`
	CustomAnswer   *string   `json:"custom_answer,omitempty"`
}

// RecentResponses handles GET /api/responses?limit=N
func (h *SurveyHandler) RecentResponses(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecentLimit)
	}

	rows, err := h.service.RecentResponses(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list responses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]responseView, 0, len(rows))
	for _, row := range rows {
		view := responseView{ID: row.ID, QuestionID: row.QuestionID, Answer: row.Answer, CreatedAt: row.CreatedAt}
		if row.IsCustom() {
			if q, a, ok := domain.DecodeCustomAnswer(row.Answer); ok {
				view.CustomQuestion = &q
				view.CustomAnswer = &a
			}
		}
		out = append(out, view)
	}
	writeJSON(w, http.StatusOK, out)
}
