package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-chat/internal/domain"
	"persona-chat/internal/knowledge"
	"persona-chat/internal/llm"
	"persona-chat/internal/service"
)

type panicRelay struct{}

func (panicRelay) Handle(context.Context, domain.ChatRequest) (string, error) {
	panic("boom")
}

func newTestRelay(client llm.Client) *service.RelayService {
	prompt := service.PersonaPrompt{Name: "Vignesh", Email: "vika2375@colorado.edu", LinkedIn: "www.linkedin.com/in/k-vignesh-kumar"}
	doc := domain.KnowledgeDocument{Version: "v1", Text: "## Education\n- CU Boulder"}
	return service.NewRelayService(zap.NewNop(), client, prompt, doc, "gpt-3.5-turbo", time.Second)
}

func setupChatRouter(relay Relay, origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(zap.NewNop(), NewChatHandler(zap.NewNop(), relay), NewHealthHandler("v1"), origins)
}

func performRequest(r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestChatHandler_Success(t *testing.T) {
	mock := &llm.MockClient{Response: "I'm pursuing a Master's in Computer Science at **CU Boulder**."}
	r := setupChatRouter(newTestRelay(mock), nil)

	for _, path := range []string{"/api/chat", "/api/chatbot"} {
		rec := performRequest(r, http.MethodPost, path, `{"message":"Where did you study?"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}
		body := decodeBody(t, rec)
		if body["reply"] != mock.Response {
			t.Fatalf("%s: reply must be relayed verbatim, got %q", path, body["reply"])
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: expected request id header", path)
		}
	}

	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected one outbound call per request, got %d", len(calls))
	}
	if calls[0].Messages[1].Content != "Where did you study?" {
		t.Fatalf("unexpected user message %q", calls[0].Messages[1].Content)
	}
}

func TestChatHandler_WeaknessesAnsweredFromDocument(t *testing.T) {
	doc, err := knowledge.LoadDefault()
	if err != nil {
		t.Fatalf("load default document: %v", err)
	}
	section, ok := doc.Section("weaknesses")
	if !ok || len(section.Items) == 0 {
		t.Fatalf("embedded document has no Weaknesses section")
	}
	paragraph := strings.Join(section.Items, "\n")

	mock := &llm.MockClient{Response: paragraph}
	prompt := service.PersonaPrompt{Name: "Vignesh", Email: "vika2375@colorado.edu", LinkedIn: "www.linkedin.com/in/k-vignesh-kumar"}
	relay := service.NewRelayService(zap.NewNop(), mock, prompt, doc, "gpt-3.5-turbo", time.Second)
	r := setupChatRouter(relay, nil)

	rec := performRequest(r, http.MethodPost, "/api/chat", `{"message":"What are your weaknesses?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["reply"]; got != paragraph {
		t.Fatalf("expected the Weaknesses paragraph verbatim, got %q", got)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one outbound call, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Messages[0].Content, "Perfectionist tendencies") {
		t.Fatalf("system message must carry the Weaknesses section")
	}
	if calls[0].Messages[1].Content != "What are your weaknesses?" {
		t.Fatalf("unexpected user message %q", calls[0].Messages[1].Content)
	}
}

func TestChatHandler_BadRequests(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty message", `{"message":""}`, "message is required"},
		{"whitespace message", `{"message":"   "}`, "message is required"},
		{"missing message", `{}`, "invalid request"},
		{"malformed json", `{"message":`, "invalid request"},
		{"wrong type", `{"message":42}`, "invalid request"},
		{"empty body", ``, "invalid request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &llm.MockClient{Response: "should not be used"}
			r := setupChatRouter(newTestRelay(mock), nil)

			rec := performRequest(r, http.MethodPost, "/api/chat", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if got := decodeBody(t, rec)["error"]; got != tc.wantErr {
				t.Fatalf("expected error %q, got %q", tc.wantErr, got)
			}
			if len(mock.Calls()) != 0 {
				t.Fatalf("expected no outbound call")
			}
		})
	}
}

func TestChatHandler_UpstreamFailure(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("401 invalid api key")}
	r := setupChatRouter(newTestRelay(mock), nil)

	rec := performRequest(r, http.MethodPost, "/api/chat", `{"message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Failed to fetch AI response" {
		t.Fatalf("unexpected error body %q", got)
	}
	if strings.Contains(rec.Body.String(), "invalid api key") {
		t.Fatalf("upstream details must not leak")
	}
	if len(mock.Calls()) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(mock.Calls()))
	}
}

func TestChatHandler_PanicRecovered(t *testing.T) {
	r := setupChatRouter(panicRelay{}, nil)
	rec := performRequest(r, http.MethodPost, "/api/chat", `{"message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	mock := &llm.MockClient{Response: "still alive"}
	r = setupChatRouter(newTestRelay(mock), nil)
	if rec := performRequest(r, http.MethodPost, "/api/chat", `{"message":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 after recovery, got %d", rec.Code)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := setupChatRouter(newTestRelay(&llm.MockClient{}), nil)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := performRequest(r, method, "/api/chat", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected status 405, got %d", method, rec.Code)
		}
	}
}

func TestRouter_Health(t *testing.T) {
	r := setupChatRouter(newTestRelay(&llm.MockClient{}), nil)
	rec := performRequest(r, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["knowledge_version"] != "v1" {
		t.Fatalf("unexpected health body %+v", body)
	}
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	r := setupChatRouter(newTestRelay(&llm.MockClient{Response: "ok"}), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestRouter_CORS(t *testing.T) {
	origin := "https://portfolio.example.com"
	r := setupChatRouter(newTestRelay(&llm.MockClient{Response: "ok"}), []string{origin})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
		t.Fatalf("unexpected allow origin %q", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown origin, got %d", rec.Code)
	}
}

func TestChatHandler_ConcurrentRequests(t *testing.T) {
	mock := &llm.MockClient{Response: "ok"}
	r := setupChatRouter(newTestRelay(mock), nil)

	srv := httptest.NewServer(r)
	defer srv.Close()

	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			body := fmt.Sprintf(`{"message":"question %d"}`, i)
			resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(body))
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			errs <- nil
		}(i)
	}
	for i := 0; i < 10; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("request failed: %v", err)
		}
	}
	if len(mock.Calls()) != 10 {
		t.Fatalf("expected 10 outbound calls, got %d", len(mock.Calls()))
	}
}
