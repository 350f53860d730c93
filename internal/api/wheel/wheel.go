package wheel

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "spinny_backend/internal/api/dto/wheel"
	"spinny_backend/internal/converter"
	"spinny_backend/internal/lib/logger/sl"
	"spinny_backend/internal/model"
	"spinny_backend/internal/service"
	"spinny_backend/pkg/req"
	"spinny_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.WheelService
	Log  *slog.Logger
}

type Handler struct {
	serv service.WheelService
	log  *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	return &Handler{serv: deps.Serv, log: log.With(slog.String("component", "api/wheel"))}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.CreateWheelRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wheel, err := h.serv.CreateWheel(r.Context(), payload.Name)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToWheelResponse(*wheel))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	wheel, err := h.serv.GetWheel(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		h.fail(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelResponse(*wheel))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.serv.DeleteWheel(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	if err := h.serv.JoinWheel(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.serv.LeaveWheel(r.Context(), chi.URLParam(r, "publicId")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	wheels, err := h.serv.MyWheels(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelsResponse(wheels))
}

func (h *Handler) Participating(w http.ResponseWriter, r *http.Request) {
	wheels, err := h.serv.ParticipatingWheels(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelsResponse(wheels))
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	out, err := h.serv.SpinWheel(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*out))
}

// Render отдает GIF последней прокрутки
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	data, err := h.serv.RenderLastSpin(r.Context(), chi.URLParam(r, "publicId"))
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Warn("failed to write gif", sl.Err(err))
	}
}

// fail переводит доменную ошибку в HTTP статус
func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", sl.Err(err))
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrWheelNotFound), errors.Is(err, model.ErrNoSpin):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyJoined), errors.Is(err, model.ErrNotJoined):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
