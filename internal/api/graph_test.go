package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/fluxfeed-be/internal/api"
	"github.com/isdelr/fluxfeed-be/internal/auth"
	"github.com/isdelr/fluxfeed-be/internal/policy"
	"github.com/isdelr/fluxfeed-be/internal/resolve"
	"github.com/isdelr/fluxfeed-be/internal/services"
	"github.com/isdelr/fluxfeed-be/internal/store/storetest"
	"github.com/isdelr/fluxfeed-be/internal/websocket"
)

func newTestServer(t *testing.T) (http.Handler, *auth.TokenCodec) {
	t.Helper()

	users := storetest.NewUserStore()
	posts := storetest.NewPostStore()
	comments := storetest.NewCommentStore()
	events := storetest.NewEventStore()

	tokens := auth.NewTokenCodec("test-secret", time.Hour)
	hasher := auth.NewHasher(4)

	hub := websocket.NewHub()
	go hub.Run()

	eventSvc := services.NewEventService(events, hub)
	userSvc := services.NewUserService(users, hasher, tokens, eventSvc)
	postSvc := services.NewPostService(posts, comments, eventSvc)
	resolver := resolve.New(users, posts, comments)

	registry := policy.NewRegistry()
	api.NewOperations(userSvc, postSvc, eventSvc, resolver).Register(registry)

	return api.NewRouter(tokens, registry, hub, "http://localhost:3000"), tokens
}

// dispatch posts one operation to the graph endpoint and decodes the
// response envelope.
func dispatch(t *testing.T, handler http.Handler, token, operation string, args interface{}) (int, json.RawMessage, string) {
	t.Helper()

	payload, err := json.Marshal(map[string]interface{}{
		"operation": operation,
		"args":      args,
	})
	if err != nil {
		t.Fatalf("failed to build request payload: %s", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/graph", bytes.NewReader(payload))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response %q: %s", w.Body.String(), err)
	}
	return w.Code, envelope.Data, envelope.Error
}

type sessionResult struct {
	User  resolve.UserView `json:"user"`
	Token string           `json:"token"`
}

func register(t *testing.T, handler http.Handler, first, last, email string) sessionResult {
	t.Helper()

	status, data, errMsg := dispatch(t, handler, "", "register", map[string]string{
		"firstName": first,
		"lastName":  last,
		"email":     email,
		"password":  "hunter2",
	})
	if status != http.StatusOK {
		t.Fatalf("failed to register %s: status %d, error %q", email, status, errMsg)
	}
	var session sessionResult
	if err := json.Unmarshal(data, &session); err != nil {
		t.Fatalf("failed to decode register result: %s", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a session token for %s", email)
	}
	return session
}

func TestRegisterFollowPostFeed(t *testing.T) {
	handler, _ := newTestServer(t)

	a := register(t, handler, "Alice", "Hart", "a@x.com")
	b := register(t, handler, "Bob", "Stone", "b@x.com")

	// A follows B.
	status, _, errMsg := dispatch(t, handler, a.Token, "follow", map[string]string{"friend": b.User.ID})
	if status != http.StatusOK {
		t.Fatalf("failed to follow: status %d, error %q", status, errMsg)
	}

	// B creates a post.
	status, _, errMsg = dispatch(t, handler, b.Token, "createPost", map[string]string{
		"title":   "Hello",
		"content": "First post",
	})
	if status != http.StatusOK {
		t.Fatalf("failed to create post: status %d, error %q", status, errMsg)
	}

	// A's feed contains exactly that post, with the creator resolved.
	status, data, errMsg := dispatch(t, handler, a.Token, "feed", map[string]interface{}{
		"include": []string{"creator"},
	})
	if status != http.StatusOK {
		t.Fatalf("failed to fetch feed: status %d, error %q", status, errMsg)
	}

	var feed []resolve.PostView
	if err := json.Unmarshal(data, &feed); err != nil {
		t.Fatalf("failed to decode feed: %s", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected exactly one post in the feed, got %d", len(feed))
	}
	post := feed[0]
	if post.Title != "Hello" {
		t.Errorf("expected post title Hello, got %q", post.Title)
	}
	if post.Likes != 0 {
		t.Errorf("expected 0 likes, got %d", post.Likes)
	}
	if post.Creator == nil || post.Creator.DisplayName != "Bob Stone" {
		t.Errorf("expected creator display name Bob Stone, got %+v", post.Creator)
	}
}

func TestFeedExcludesStrangers(t *testing.T) {
	handler, _ := newTestServer(t)

	a := register(t, handler, "Alice", "Hart", "a@x.com")
	stranger := register(t, handler, "Mallory", "Vane", "m@x.com")

	status, _, errMsg := dispatch(t, handler, stranger.Token, "createPost", map[string]string{
		"title":   "Unrelated",
		"content": "Not for Alice",
	})
	if status != http.StatusOK {
		t.Fatalf("failed to create post: status %d, error %q", status, errMsg)
	}

	status, data, errMsg := dispatch(t, handler, a.Token, "feed", nil)
	if status != http.StatusOK {
		t.Fatalf("failed to fetch feed: status %d, error %q", status, errMsg)
	}
	var feed []resolve.PostView
	if err := json.Unmarshal(data, &feed); err != nil {
		t.Fatalf("failed to decode feed: %s", err)
	}
	if len(feed) != 0 {
		t.Errorf("posts by non-friends must never appear in the feed, got %d", len(feed))
	}
}

func TestLoginFailureThenAnonymousMe(t *testing.T) {
	handler, _ := newTestServer(t)

	register(t, handler, "Alice", "Hart", "a@x.com")

	status, data, errMsg := dispatch(t, handler, "", "login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", status)
	}
	if errMsg == "" {
		t.Error("expected an error message for failed login")
	}
	if len(data) != 0 && string(data) != "null" {
		t.Errorf("expected no token payload on failed login, got %s", data)
	}

	status, _, _ = dispatch(t, handler, "", "me", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 for me without a token, got %d", status)
	}
}

func TestProtectedOperationsRejectInvalidTokens(t *testing.T) {
	handler, _ := newTestServer(t)
	a := register(t, handler, "Alice", "Hart", "a@x.com")

	expiredCodec := auth.NewTokenCodec("test-secret", -time.Hour)
	expired, err := expiredCodec.Mint(a.User.ID)
	if err != nil {
		t.Fatalf("failed to mint expired token: %s", err)
	}

	tampered := []byte(a.Token)
	tampered[len(tampered)/2] ^= 0x01

	testCases := []struct {
		description string
		token       string
	}{
		{"no token", ""},
		{"expired token", expired},
		{"tampered token", string(tampered)},
		{"garbage token", "not-a-token"},
	}

	protectedOps := []string{"me", "feed", "createPost", "follow"}

	for _, tc := range testCases {
		for _, op := range protectedOps {
			t.Run(fmt.Sprintf("%s %s", tc.description, op), func(t *testing.T) {
				status, _, _ := dispatch(t, handler, tc.token, op, map[string]string{
					"friend": "x", "title": "x", "content": "x",
				})
				if status != http.StatusUnauthorized {
					t.Errorf("expected 401, got %d", status)
				}
			})
		}
	}
}

func TestDuplicateEmailConflict(t *testing.T) {
	handler, _ := newTestServer(t)

	register(t, handler, "Alice", "Hart", "a@x.com")

	status, _, errMsg := dispatch(t, handler, "", "register", map[string]string{
		"firstName": "Alan",
		"lastName":  "Hart",
		"email":     "a@x.com",
		"password":  "other",
	})
	if status != http.StatusConflict {
		t.Errorf("expected 409 for a duplicate email, got %d (error %q)", status, errMsg)
	}
}

func TestRegisterEmptyPassword(t *testing.T) {
	handler, _ := newTestServer(t)

	status, _, errMsg := dispatch(t, handler, "", "register", map[string]string{
		"firstName": "Alice",
		"lastName":  "Hart",
		"email":     "a@x.com",
		"password":  "",
	})
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty password, got %d (error %q)", status, errMsg)
	}
}

func TestUnknownOperation(t *testing.T) {
	handler, _ := newTestServer(t)

	status, _, errMsg := dispatch(t, handler, "", "frobnicate", nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown operation, got %d (error %q)", status, errMsg)
	}
}

func TestPostAndComments(t *testing.T) {
	handler, _ := newTestServer(t)

	a := register(t, handler, "Alice", "Hart", "a@x.com")
	b := register(t, handler, "Bob", "Stone", "b@x.com")

	status, data, errMsg := dispatch(t, handler, a.Token, "createPost", map[string]string{
		"title":   "Hello",
		"content": "First post",
	})
	if status != http.StatusOK {
		t.Fatalf("failed to create post: status %d, error %q", status, errMsg)
	}
	var created resolve.PostView
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("failed to decode post: %s", err)
	}

	status, _, errMsg = dispatch(t, handler, b.Token, "commentPost", map[string]string{
		"postId":  created.ID,
		"message": "Nice one",
	})
	if status != http.StatusOK {
		t.Fatalf("failed to comment: status %d, error %q", status, errMsg)
	}

	// Fetch the post with comments and their creators resolved.
	status, data, errMsg = dispatch(t, handler, a.Token, "post", map[string]interface{}{
		"postId":  created.ID,
		"include": []string{"comments", "comments.creator"},
	})
	if status != http.StatusOK {
		t.Fatalf("failed to fetch post: status %d, error %q", status, errMsg)
	}
	var fetched resolve.PostView
	if err := json.Unmarshal(data, &fetched); err != nil {
		t.Fatalf("failed to decode post: %s", err)
	}
	if len(fetched.Comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(fetched.Comments))
	}
	comment := fetched.Comments[0]
	if comment.Message != "Nice one" {
		t.Errorf("expected comment message, got %q", comment.Message)
	}
	if comment.Creator == nil || comment.Creator.DisplayName != "Bob Stone" {
		t.Errorf("expected comment creator Bob Stone, got %+v", comment.Creator)
	}

	// The comments operation returns the same comment.
	status, data, errMsg = dispatch(t, handler, a.Token, "comments", map[string]string{
		"postId": created.ID,
	})
	if status != http.StatusOK {
		t.Fatalf("failed to fetch comments: status %d, error %q", status, errMsg)
	}
	var comments []resolve.CommentView
	if err := json.Unmarshal(data, &comments); err != nil {
		t.Fatalf("failed to decode comments: %s", err)
	}
	if len(comments) != 1 {
		t.Errorf("expected one comment, got %d", len(comments))
	}
}

func TestMissingPostIsNullData(t *testing.T) {
	handler, _ := newTestServer(t)
	a := register(t, handler, "Alice", "Hart", "a@x.com")

	status, data, errMsg := dispatch(t, handler, a.Token, "post", map[string]string{"postId": "ghost"})
	if status != http.StatusOK {
		t.Fatalf("expected 200 with null data for a missing post, got %d (error %q)", status, errMsg)
	}
	if string(data) != "null" {
		t.Errorf("expected null data, got %s", data)
	}
}

func TestUpdateAvatarRoundTrip(t *testing.T) {
	handler, _ := newTestServer(t)
	a := register(t, handler, "Alice", "Hart", "a@x.com")

	status, _, errMsg := dispatch(t, handler, a.Token, "updateAvatar", map[string]string{
		"url": "https://cdn.example.com/a.png",
	})
	if status != http.StatusOK {
		t.Fatalf("failed to update avatar: status %d, error %q", status, errMsg)
	}

	status, data, errMsg := dispatch(t, handler, a.Token, "me", nil)
	if status != http.StatusOK {
		t.Fatalf("failed to fetch me: status %d, error %q", status, errMsg)
	}
	var me resolve.UserView
	if err := json.Unmarshal(data, &me); err != nil {
		t.Fatalf("failed to decode me: %s", err)
	}
	if me.Avatar.URL == nil || *me.Avatar.URL != "https://cdn.example.com/a.png" {
		t.Errorf("expected avatar url to round trip, got %v", me.Avatar.URL)
	}
}
