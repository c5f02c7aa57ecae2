// Package api exposes the advisor over HTTP and MCP. The HTTP surface is a
// small session API: upload documents and intake answers to open a session,
// then exchange messages on it.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/advisor/internal/advisor"
	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/conversation"
	"github.com/kalambet/advisor/internal/extract"
	"github.com/kalambet/advisor/internal/profile"
)

const maxUploadSize = 10 << 20     // 10MB, marksheet plus certificates
const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds what the HTTP layer needs: the advisor and the loaded catalog
// for the read-only listing endpoint.
type Deps struct {
	Advisor *advisor.Advisor
	Catalog []catalog.CourseRecord
}

func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/catalog", handleCatalog(deps))
	r.Post("/sessions", handleStartSession(deps))
	r.Get("/sessions/{id}", handleGetSession(deps))
	r.Post("/sessions/{id}/messages", handleMessage(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleCatalog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := deps.Catalog
		if records == nil {
			records = []catalog.CourseRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

// StartSessionResponse is the body returned when a session opens: the new
// session ID, the profile built from the uploads and answers, and the
// advisor's opening reply.
type StartSessionResponse struct {
	SessionID string                 `json:"session_id"`
	Profile   profile.StudentProfile `json:"profile"`
	Reply     string                 `json:"reply"`
}

func handleStartSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart form: %v", err)
			return
		}

		marksheet, _, err := r.FormFile("marksheet")
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "marksheet file is required")
			return
		}
		defer marksheet.Close()

		// A marksheet the extractor cannot read is not fatal: the session
		// opens with no marks and the advisor asks for more information.
		var marks []profile.Mark
		text, err := extract.FromUpload(marksheet)
		if err != nil {
			slog.Warn("marksheet extraction failed", "error", err)
		} else {
			marks = extract.ParseMarks(text)
		}

		certTexts := certificateTexts(r.MultipartForm)
		ans := answersFromForm(r)
		interests := extract.Interests(append(certTexts, ans.ExtraCurricular)...)

		p := profile.Build(marks, interests, ans)
		s, reply := deps.Advisor.StartSession(r.Context(), p)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(StartSessionResponse{
			SessionID: s.ID,
			Profile:   s.Profile,
			Reply:     reply,
		})
	}
}

// certificateTexts extracts text from every uploaded certificate. Unreadable
// certificates are skipped, they only narrow the interest signal.
func certificateTexts(form *multipart.Form) []string {
	if form == nil {
		return nil
	}
	var texts []string
	for _, fh := range form.File["certificates"] {
		f, err := fh.Open()
		if err != nil {
			slog.Warn("opening certificate failed", "name", fh.Filename, "error", err)
			continue
		}
		text, err := extract.FromUpload(f)
		f.Close()
		if err != nil {
			slog.Warn("certificate extraction failed", "name", fh.Filename, "error", err)
			continue
		}
		texts = append(texts, text)
	}
	return texts
}

func answersFromForm(r *http.Request) profile.Answers {
	return profile.Answers{
		Aspiration:       r.FormValue("aspiration"),
		WorkPreference:   r.Form["work_preference"],
		FavoriteSubjects: r.FormValue("favorite_subjects"),
		ExtraCurricular:  r.FormValue("activities"),
		DegreeLevel:      parseDegreeLevel(r.FormValue("degree_level")),
	}
}

// parseDegreeLevel accepts both the canonical label and loose spellings like
// "master" or "masters". Anything unrecognized falls back to Bachelor's.
func parseDegreeLevel(v string) profile.DegreeLevel {
	if strings.Contains(strings.ToLower(v), "master") {
		return profile.Masters
	}
	return profile.Bachelors
}

// SessionResponse is the body of GET /sessions/{id}.
type SessionResponse struct {
	SessionID string                 `json:"session_id"`
	Profile   profile.StudentProfile `json:"profile"`
	History   []conversation.Turn    `json:"history"`
}

func handleGetSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Advisor.Session(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SessionResponse{
			SessionID: s.ID,
			Profile:   s.Profile,
			History:   s.History(),
		})
	}
}

type messageRequest struct {
	Message string `json:"message"`
}

func handleMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := deps.Advisor.Session(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		reply := deps.Advisor.Respond(r.Context(), s, req.Message)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"reply": reply})
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
