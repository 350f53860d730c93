package stream

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/lib/logger/sl"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Зрители колеса приходят с фронтенда на другом origin, CORS уже проверен роутером
	CheckOrigin: func(*http.Request) bool { return true },
}

type HandlerDeps struct {
	Hub *broadcast.Hub
	Log *slog.Logger
}

type Handler struct {
	hub *broadcast.Hub
	log *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{hub: deps.Hub, log: deps.Log.With(slog.String("component", "api/stream"))}
}

// Watch подписывает websocket на канал колеса и пересылает ему события.
// Входящие сообщения клиента игнорируются, чтение нужно только чтобы заметить закрытие
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicId")

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("failed to upgrade connection", sl.Err(err))
		return
	}

	sub := h.hub.Acquire(broadcast.ChannelName(publicID))
	log := h.log.With(slog.String("channel", sub.Channel()))
	log.Debug("viewer connected")

	done := make(chan struct{})
	go h.write(ws, sub, done, log)

	ws.SetReadLimit(512)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	sub.Release()
	<-done
	log.Debug("viewer disconnected")
}

// write - единственный писатель в соединение
func (h *Handler) write(ws *websocket.Conn, sub *broadcast.Subscription, done chan<- struct{}, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := ws.Close(); err != nil {
			log.Debug("failed to close connection", sl.Err(err))
		}
		close(done)
	}()

	for {
		select {
		case data, ok := <-sub.C():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("failed to write message", sl.Err(err))
				sub.Release()
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				sub.Release()
				return
			}
		}
	}
}
