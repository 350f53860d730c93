package pusher

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pusher/pusher-http-go/v5"

	"spinny_backend/internal/middleware"
	"spinny_backend/internal/model"
)

func newTestHandler(client Authorizer) *Handler {
	return NewHandler(HandlerDeps{Client: client, Log: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func testClient() *pusher.Client {
	return &pusher.Client{AppID: "1", Key: "app-key", Secret: "app-secret"}
}

func authRequest(user *model.User, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/pusher/auth", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != nil {
		r = r.WithContext(middleware.WithUser(r.Context(), *user))
	}
	return r
}

func TestAuthorizeChannel(t *testing.T) {
	u1 := &model.User{ID: "u1", Name: "Анна"}

	tests := []struct {
		name     string
		client   Authorizer
		user     *model.User
		channel  string
		status   int
		contains string
	}{
		{name: "wheel channel", client: testClient(), user: u1, channel: "private-wheel-abc", status: http.StatusOK, contains: `"auth":"app-key:`},
		{name: "own user channel", client: testClient(), user: u1, channel: "private-user-u1", status: http.StatusOK, contains: `"auth":"app-key:`},
		{name: "foreign user channel", client: testClient(), user: u1, channel: "private-user-other", status: http.StatusForbidden},
		{name: "presence channel", client: testClient(), user: u1, channel: "presence-wheel-abc", status: http.StatusOK, contains: `channel_data`},
		{name: "pusher not configured", client: nil, user: u1, channel: "private-wheel-abc", status: http.StatusInternalServerError},
		{name: "anonymous", client: testClient(), user: nil, channel: "private-wheel-abc", status: http.StatusUnauthorized},
		{name: "missing channel", client: testClient(), user: u1, channel: "", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"socket_id": {"1234.5678"}}
			if tt.channel != "" {
				form.Set("channel_name", tt.channel)
			}

			w := httptest.NewRecorder()
			newTestHandler(tt.client).AuthorizeChannel(w, authRequest(tt.user, form))

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.status, w.Body)
			}
			if tt.contains != "" && !strings.Contains(w.Body.String(), tt.contains) {
				t.Fatalf("body %s does not contain %s", w.Body, tt.contains)
			}
		})
	}
}

func TestAuthenticateUser(t *testing.T) {
	form := url.Values{"socket_id": {"1234.5678"}}

	w := httptest.NewRecorder()
	newTestHandler(testClient()).AuthenticateUser(w, authRequest(&model.User{ID: "u1", Name: "Анна"}, form))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), "user_data") {
		t.Fatalf("body = %s", w.Body)
	}

	w = httptest.NewRecorder()
	newTestHandler(nil).AuthenticateUser(w, authRequest(&model.User{ID: "u1"}, form))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("unconfigured pusher: status = %d", w.Code)
	}
}

func TestCanUseChannel(t *testing.T) {
	tests := []struct {
		channel string
		want    bool
	}{
		{channel: "private-wheel-abc", want: true},
		{channel: "private-user-u1", want: true},
		{channel: "private-user-u2", want: false},
		{channel: "presence-user-u2", want: false},
		{channel: "private-encrypted-user-u2", want: false},
		{channel: "private-encrypted-user-u1", want: true},
		{channel: "user-u2", want: true},
	}
	for _, tt := range tests {
		if got := CanUseChannel(tt.channel, "u1"); got != tt.want {
			t.Errorf("CanUseChannel(%q) = %v, want %v", tt.channel, got, tt.want)
		}
	}
}
