package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/advisor/internal/advisor"
	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/composer"
	"github.com/kalambet/advisor/internal/conversation"
	"github.com/kalambet/advisor/internal/match"
)

type stubCompleter struct {
	reply string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, nil
}

func testCatalog() []catalog.CourseRecord {
	return []catalog.CourseRecord{
		{
			Degree:    "Bachelor of Technology",
			Course:    "B.Tech in Computer Science and Engineering",
			Subjects:  []string{"Programming", "Mathematics"},
			SourceURL: "https://example.edu/btech-cse",
		},
		{
			Degree:    "Bachelor of Design",
			Course:    "B.Des in Communication Design",
			Subjects:  []string{"Typography", "Illustration"},
			SourceURL: "https://example.edu/bdes",
		},
	}
}

func newTestHandler(reply string) http.Handler {
	cat := testCatalog()
	adv := advisor.New(
		cat,
		match.New(match.DefaultRules()),
		conversation.NewAnalyzer(conversation.DefaultRules()),
		composer.New(),
		&stubCompleter{reply: reply},
	)
	return NewHandler(Deps{Advisor: adv, Catalog: cat})
}

// startSession posts a multipart session request and returns the decoded
// response. The marksheet bytes are deliberately not a valid PDF: extraction
// failure opens the session with no marks rather than rejecting it.
func startSession(t *testing.T, h http.Handler) StartSessionResponse {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("marksheet", "marks.pdf")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	fw.Write([]byte("not a pdf"))
	mw.WriteField("aspiration", "I want to build software products")
	mw.WriteField("work_preference", "Machines or Code")
	mw.WriteField("favorite_subjects", "Computer Science, because I enjoy problem solving")
	mw.WriteField("activities", "Programming club and robotics competitions")
	mw.WriteField("degree_level", "bachelor")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sessions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /sessions status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp StartSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	h := newTestHandler("ok")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCatalogEndpoint(t *testing.T) {
	h := newTestHandler("ok")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var records []catalog.CourseRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decoding catalog: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestStartSession(t *testing.T) {
	h := newTestHandler("Here are some courses for you.")

	resp := startSession(t, h)
	if resp.SessionID == "" {
		t.Error("empty session_id")
	}
	if resp.Reply != "Here are some courses for you." {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.Profile.Aspiration != "I want to build software products" {
		t.Errorf("aspiration = %q", resp.Profile.Aspiration)
	}
	if resp.Profile.DegreeLevel != "Bachelor's Degree" {
		t.Errorf("degree level = %q", resp.Profile.DegreeLevel)
	}
	// "Programming" in activities maps to the Technology interest.
	found := false
	for _, in := range resp.Profile.Interests {
		if in == "Technology" {
			found = true
		}
	}
	if !found {
		t.Errorf("interests = %v, want Technology derived from activities", resp.Profile.Interests)
	}
}

func TestStartSession_MissingMarksheet(t *testing.T) {
	h := newTestHandler("ok")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("aspiration", "engineer")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sessions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "marksheet") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMessageFlow(t *testing.T) {
	h := newTestHandler("A follow-up answer.")
	resp := startSession(t, h)

	body := strings.NewReader(`{"message": "Tell me more about the first course"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+resp.SessionID+"/messages", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}
	if out["reply"] != "A follow-up answer." {
		t.Errorf("reply = %q", out["reply"])
	}

	// Session history now holds the opening reply plus the exchanged pair.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+resp.SessionID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET session status = %d", rec.Code)
	}
	var sess SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&sess); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	if len(sess.History) != 3 {
		t.Errorf("history length = %d, want 3", len(sess.History))
	}
}

func TestMessage_EmptyMessage(t *testing.T) {
	h := newTestHandler("ok")
	resp := startSession(t, h)

	body := strings.NewReader(`{"message": "   "}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+resp.SessionID+"/messages", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMessage_UnknownSession(t *testing.T) {
	h := newTestHandler("ok")

	body := strings.NewReader(`{"message": "hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/sessions/no-such-id/messages", body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetSession_Unknown(t *testing.T) {
	h := newTestHandler("ok")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestParseDegreeLevel(t *testing.T) {
	cases := map[string]string{
		"":                "Bachelor's Degree",
		"bachelor":        "Bachelor's Degree",
		"Master's Degree": "Master's Degree",
		"masters":         "Master's Degree",
		"nonsense":        "Bachelor's Degree",
	}
	for in, want := range cases {
		if got := string(parseDegreeLevel(in)); got != want {
			t.Errorf("parseDegreeLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
