package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"algotutor-go/internal/model"
	"algotutor-go/internal/repository"
	"algotutor-go/internal/service"
	"algotutor-go/pkg/llm"

	"github.com/gin-gonic/gin"
)

type stubLLM struct {
	resp  *model.TutorResponse
	err   error
	calls int
}

func (s *stubLLM) Complete(_ context.Context, _ []model.ChatMessage, _ string) (*model.TutorResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type testServer struct {
	router *gin.Engine
	store  repository.Store
	llm    *stubLLM
}

func newTestServer(t *testing.T, client *stubLLM) *testServer {
	t.Helper()
	return newTestServerWithStore(t, client, repository.NewMemoryStore())
}

func newTestServerWithStore(t *testing.T, client *stubLLM, store repository.Store) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conversations := service.NewConversationService(store)
	router := NewRouter(Services{
		Conversations: conversations,
		Chat:          service.NewChatService(store, service.NewTutorService(client), nil),
		Users:         service.NewUserService(store),
		Catalog:       service.NewCatalogService(),
	})
	return &testServer{router: router, store: store, llm: client}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func (s *testServer) createConversation(t *testing.T, title string) model.Conversation {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/conversations", map[string]string{"title": title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create conversation status = %d, body = %s", w.Code, w.Body.String())
	}
	return decode[model.Conversation](t, w)
}

type exchangeBody struct {
	UserMessage      model.Message `json:"userMessage"`
	AssistantMessage model.Message `json:"assistantMessage"`
	Complexity       *string       `json:"complexity"`
	FurtherReadings  []string      `json:"furtherReadings"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubLLM{})
	w := s.do(t, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[map[string]string](t, w); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestConversationsCreateAndList(t *testing.T) {
	s := newTestServer(t, &stubLLM{})

	w := s.do(t, http.MethodGet, "/api/conversations", nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("empty list = %d %s", w.Code, w.Body.String())
	}

	first := s.createConversation(t, "Linked lists")
	second := s.createConversation(t, "Sorting")
	if first.ID == 0 || first.Title != "Linked lists" || first.CreatedAt.IsZero() {
		t.Errorf("created conversation = %+v", first)
	}

	list := decode[[]model.Conversation](t, s.do(t, http.MethodGet, "/api/conversations", nil))
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("list = %+v, want newest first", list)
	}

	w = s.do(t, http.MethodPost, "/api/conversations", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", w.Code)
	}
	body := decode[map[string]any](t, w)
	if body["message"] == nil || body["errors"] == nil {
		t.Errorf("400 body = %v, want message and errors", body)
	}
}

func TestSendMessageRoundTrip(t *testing.T) {
	complexity := "O(n)"
	client := &stubLLM{resp: &model.TutorResponse{
		Explanation: "Walk the list node by node.",
		CodeBlocks: []model.CodeBlock{
			{Language: "python", Code: "while node:\n    node = node.next"},
			{Language: "python", Code: "print(\"done\")"},
		},
		Complexity:      &complexity,
		FurtherReadings: []string{"doubly linked lists"},
	}}
	s := newTestServer(t, client)
	conv := s.createConversation(t, "Lists")
	path := "/api/conversations/" + itoa(conv.ID) + "/messages"

	w := s.do(t, http.MethodPost, path, map[string]string{"content": "How do I traverse a linked list?", "preferredLanguage": "python"})
	if w.Code != http.StatusOK {
		t.Fatalf("post status = %d, body = %s", w.Code, w.Body.String())
	}
	exchange := decode[exchangeBody](t, w)
	if exchange.Complexity == nil || *exchange.Complexity != complexity || len(exchange.FurtherReadings) != 1 {
		t.Errorf("ephemeral fields = %v %v", exchange.Complexity, exchange.FurtherReadings)
	}

	messages := decode[[]model.Message](t, s.do(t, http.MethodGet, path, nil))
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	user, assistant := messages[0], messages[1]
	if user.Role != model.RoleUser || user.Content != "How do I traverse a linked list?" || user.ID != exchange.UserMessage.ID {
		t.Errorf("user message = %+v", user)
	}
	if assistant.Role != model.RoleAssistant || assistant.Content != "Walk the list node by node." || assistant.ID != exchange.AssistantMessage.ID {
		t.Errorf("assistant message = %+v", assistant)
	}
	if assistant.Timestamp.Before(user.Timestamp) {
		t.Error("assistant message is ordered before the user message")
	}
	if !reflect.DeepEqual([]model.CodeBlock(assistant.CodeBlocks), client.resp.CodeBlocks) {
		t.Errorf("code blocks = %+v, want %+v", assistant.CodeBlocks, client.resp.CodeBlocks)
	}
	if user.ConversationID != conv.ID || assistant.ConversationID != conv.ID {
		t.Errorf("messages attached to wrong conversation: %d %d", user.ConversationID, assistant.ConversationID)
	}
}

func TestGetMessagesIsRepeatable(t *testing.T) {
	s := newTestServer(t, &stubLLM{resp: &model.TutorResponse{Explanation: "ok", CodeBlocks: []model.CodeBlock{}}})
	conv := s.createConversation(t, "Repeat")
	path := "/api/conversations/" + itoa(conv.ID) + "/messages"
	s.do(t, http.MethodPost, path, map[string]string{"content": "hi"})

	first := s.do(t, http.MethodGet, path, nil)
	second := s.do(t, http.MethodGet, path, nil)
	if first.Code != http.StatusOK || first.Body.String() != second.Body.String() {
		t.Errorf("reads differ:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestMessagesUnknownConversation(t *testing.T) {
	client := &stubLLM{resp: &model.TutorResponse{Explanation: "ok"}}
	s := newTestServer(t, client)

	w := s.do(t, http.MethodPost, "/api/conversations/999/messages", map[string]string{"content": "hello"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("post status = %d, want 404", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/conversations/999/messages", nil); w.Code != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", w.Code)
	}
	if client.calls != 0 {
		t.Errorf("completion client called %d times", client.calls)
	}
	messages, _ := s.store.ListMessages(context.Background(), 999)
	if len(messages) != 0 {
		t.Errorf("messages written for a missing conversation: %+v", messages)
	}
}

func TestMessagesBadRequests(t *testing.T) {
	s := newTestServer(t, &stubLLM{resp: &model.TutorResponse{Explanation: "ok"}})
	conv := s.createConversation(t, "Bad")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{name: "non numeric id on get", method: http.MethodGet, path: "/api/conversations/abc/messages"},
		{name: "non numeric id on post", method: http.MethodPost, path: "/api/conversations/abc/messages", body: map[string]string{"content": "x"}},
		{name: "missing content", method: http.MethodPost, path: "/api/conversations/" + itoa(conv.ID) + "/messages", body: map[string]string{}},
		{name: "blank content", method: http.MethodPost, path: "/api/conversations/" + itoa(conv.ID) + "/messages", body: map[string]string{"content": "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(t, tt.method, tt.path, tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSendMessageUpstreamAuthErrorIs500(t *testing.T) {
	s := newTestServer(t, &stubLLM{err: &llm.UpstreamError{Status: http.StatusUnauthorized, Message: "Incorrect API key provided."}})
	conv := s.createConversation(t, "Auth")

	w := s.do(t, http.MethodPost, "/api/conversations/"+itoa(conv.ID)+"/messages", map[string]string{"content": "Explain linked lists"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decode[map[string]string](t, w)
	if body["message"] == "" || body["error"] == "" {
		t.Errorf("500 body = %v, want message and error", body)
	}
}

func TestSendMessageRateLimitedServesFallback(t *testing.T) {
	s := newTestServer(t, &stubLLM{err: &llm.UpstreamError{Status: http.StatusTooManyRequests, Message: "Rate limited"}})
	conv := s.createConversation(t, "Fallback")

	w := s.do(t, http.MethodPost, "/api/conversations/"+itoa(conv.ID)+"/messages", map[string]string{"content": "binarysearch please"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body = %s", w.Code, w.Body.String())
	}
	exchange := decode[exchangeBody](t, w)
	want := service.FallbackResponse(service.TopicBinarySearch)
	if exchange.AssistantMessage.Content != want.Explanation {
		t.Errorf("assistant content = %q, want binary search fallback", exchange.AssistantMessage.Content)
	}
}

func TestUsers(t *testing.T) {
	s := newTestServer(t, &stubLLM{})

	w := s.do(t, http.MethodPost, "/api/users", map[string]string{"username": "grace", "password": "hopper"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	created := decode[map[string]any](t, w)
	if _, ok := created["password"]; ok {
		t.Error("password hash leaked in response")
	}

	if w := s.do(t, http.MethodPost, "/api/users", map[string]string{"username": "grace", "password": "x"}); w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/users", map[string]string{"username": "nopass"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing password status = %d, want 400", w.Code)
	}

	id := uint(created["id"].(float64))
	got := decode[model.User](t, s.do(t, http.MethodGet, "/api/users/"+itoa(id), nil))
	if got.Username != "grace" {
		t.Errorf("user = %+v", got)
	}
	if w := s.do(t, http.MethodGet, "/api/users/404", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing user status = %d, want 404", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/users/x", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t, &stubLLM{})

	topics := decode[[]model.Topic](t, s.do(t, http.MethodGet, "/api/topics", nil))
	if len(topics) == 0 || len(topics[0].Subtopics) == 0 {
		t.Errorf("topics = %+v", topics)
	}
	languages := decode[[]string](t, s.do(t, http.MethodGet, "/api/languages", nil))
	if len(languages) == 0 || languages[0] != "JavaScript" {
		t.Errorf("languages = %v", languages)
	}

	w := s.do(t, http.MethodGet, "/api/topics/data-structures/subtopics/linked-lists/prompt", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("prompt status = %d", w.Code)
	}
	got := decode[map[string]string](t, w)
	if got["prompt"] != topics[0].Subtopics[1].Prompt {
		t.Errorf("prompt = %q, want %q", got["prompt"], topics[0].Subtopics[1].Prompt)
	}
	if w := s.do(t, http.MethodGet, "/api/topics/data-structures/subtopics/heaps/prompt", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown subtopic status = %d, want 404", w.Code)
	}
}

// lookupCountingStore 统计对话查询次数。
type lookupCountingStore struct {
	repository.Store
	lookups int
}

func (s *lookupCountingStore) FindConversationByID(ctx context.Context, id uint) (*model.Conversation, error) {
	s.lookups++
	return s.Store.FindConversationByID(ctx, id)
}

func TestSendMessageLooksUpConversationOnce(t *testing.T) {
	store := &lookupCountingStore{Store: repository.NewMemoryStore()}
	s := newTestServerWithStore(t, &stubLLM{resp: &model.TutorResponse{Explanation: "ok"}}, store)
	conv := s.createConversation(t, "Once")

	store.lookups = 0
	w := s.do(t, http.MethodPost, "/api/conversations/"+itoa(conv.ID)+"/messages", map[string]string{"content": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if store.lookups != 1 {
		t.Errorf("conversation looked up %d times, want 1", store.lookups)
	}
}

func TestSendMessageMissingConversationWinsOverBadBody(t *testing.T) {
	s := newTestServer(t, &stubLLM{})

	tests := []struct {
		name string
		body any
	}{
		{name: "missing content", body: map[string]string{}},
		{name: "blank content", body: map[string]string{"content": "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/conversations/999/messages", tt.body)
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
		})
	}
}
