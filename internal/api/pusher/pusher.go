package pusher

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pusher/pusher-http-go/v5"

	"spinny_backend/internal/lib/logger/sl"
	"spinny_backend/internal/middleware"
	"spinny_backend/internal/model"
)

const maxAuthBody = 4 << 10

// Authorizer - часть pusher.Client, которая подписывает подключения клиентов
type Authorizer interface {
	AuthorizePrivateChannel(params []byte) ([]byte, error)
	AuthorizePresenceChannel(params []byte, member pusher.MemberData) ([]byte, error)
	AuthenticateUser(params []byte, userData map[string]interface{}) ([]byte, error)
}

type HandlerDeps struct {
	// Client - nil, если Pusher не настроен
	Client Authorizer
	Log    *slog.Logger
}

type Handler struct {
	client Authorizer
	log    *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	return &Handler{client: deps.Client, log: log.With(slog.String("component", "api/pusher"))}
}

// AuthorizeChannel подписывает подписку на private-/presence- канал.
// Тело - форма pusher-js: socket_id и channel_name
func (h *Handler) AuthorizeChannel(w http.ResponseWriter, r *http.Request) {
	user, params, ok := h.prepare(w, r)
	if !ok {
		return
	}

	form, err := url.ParseQuery(string(params))
	if err != nil {
		http.Error(w, "malformed auth request", http.StatusBadRequest)
		return
	}
	channel := form.Get("channel_name")
	if channel == "" || form.Get("socket_id") == "" {
		http.Error(w, "socket_id and channel_name are required", http.StatusBadRequest)
		return
	}
	if !CanUseChannel(channel, user.ID) {
		http.Error(w, "you are not allowed to use this channel", http.StatusForbidden)
		return
	}

	var body []byte
	if strings.HasPrefix(channel, presencePrefix) {
		body, err = h.client.AuthorizePresenceChannel(params, pusher.MemberData{
			UserID:   user.ID,
			UserInfo: map[string]string{"name": user.Name},
		})
	} else {
		body, err = h.client.AuthorizePrivateChannel(params)
	}
	if err != nil {
		h.log.Warn("failed to authorize channel", sl.String("channel", channel), sl.Err(err))
		http.Error(w, "failed to authorize channel", http.StatusBadRequest)
		return
	}

	h.write(w, body)
}

// AuthenticateUser - вход пользователя в Pusher (user authentication)
func (h *Handler) AuthenticateUser(w http.ResponseWriter, r *http.Request) {
	user, params, ok := h.prepare(w, r)
	if !ok {
		return
	}

	body, err := h.client.AuthenticateUser(params, map[string]interface{}{
		"id":        user.ID,
		"user_info": map[string]string{"name": user.Name},
	})
	if err != nil {
		h.log.Warn("failed to authenticate pusher user", sl.String("user", user.ID), sl.Err(err))
		http.Error(w, "failed to authenticate user", http.StatusBadRequest)
		return
	}

	h.write(w, body)
}

// prepare проверяет, что Pusher настроен и пользователь известен, и читает тело запроса
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (model.User, []byte, bool) {
	if h.client == nil {
		http.Error(w, "pusher not initialized", http.StatusInternalServerError)
		return model.User{}, nil, false
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, model.ErrUnauthorized.Error(), http.StatusUnauthorized)
		return model.User{}, nil, false
	}

	params, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBody))
	if err != nil {
		http.Error(w, "failed to read request", http.StatusBadRequest)
		return model.User{}, nil, false
	}

	return user, params, true
}

func (h *Handler) write(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.log.Warn("failed to write auth response", sl.Err(err))
	}
}
