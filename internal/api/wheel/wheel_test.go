package wheel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	dto "spinny_backend/internal/api/dto/wheel"
	"spinny_backend/internal/model"
)

type fakeService struct {
	err      error
	name     string
	publicID string
}

func (f *fakeService) CreateWheel(_ context.Context, name string) (*model.Wheel, error) {
	f.name = name
	if f.err != nil {
		return nil, f.err
	}
	return &model.Wheel{PublicID: "w1", Name: name, OwnerID: "u1", Participants: []model.Participant{{UserID: "u1", Weight: 1}}}, nil
}

func (f *fakeService) DeleteWheel(_ context.Context, publicID string) error {
	f.publicID = publicID
	return f.err
}

func (f *fakeService) JoinWheel(_ context.Context, publicID string) error {
	f.publicID = publicID
	return f.err
}

func (f *fakeService) LeaveWheel(_ context.Context, publicID string) error {
	f.publicID = publicID
	return f.err
}

func (f *fakeService) MyWheels(context.Context) ([]model.Wheel, error) {
	return []model.Wheel{{PublicID: "w1"}, {PublicID: "w2"}}, f.err
}

func (f *fakeService) ParticipatingWheels(context.Context) ([]model.Wheel, error) {
	return nil, f.err
}

func (f *fakeService) GetWheel(_ context.Context, publicID string) (*model.Wheel, error) {
	f.publicID = publicID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Wheel{PublicID: publicID, Name: "n"}, nil
}

func (f *fakeService) SpinWheel(_ context.Context, publicID string) (*model.SpinOutcome, error) {
	f.publicID = publicID
	if f.err != nil {
		return nil, f.err
	}
	winner := model.Participant{UserID: "u2", Name: "Боб", Weight: 3}
	return &model.SpinOutcome{
		WheelPublicID: publicID,
		Winner:        winner,
		After:         []model.Participant{{UserID: "u1", Weight: 2}, {UserID: "u2", Weight: 1}},
		Selection:     model.Selection{PublicID: "s1", UserID: "u2", PointsWhenSelected: 3},
	}, nil
}

func (f *fakeService) RenderLastSpin(_ context.Context, publicID string) ([]byte, error) {
	f.publicID = publicID
	if f.err != nil {
		return nil, f.err
	}
	return []byte("GIF89a"), nil
}

func newRouter(svc *fakeService) http.Handler {
	h := NewHandler(HandlerDeps{Serv: svc, Log: slog.New(slog.NewTextHandler(io.Discard, nil))})
	r := chi.NewRouter()
	r.Post("/wheel", h.Create)
	r.Get("/wheel/mine", h.Mine)
	r.Get("/wheel/{publicId}", h.Get)
	r.Delete("/wheel/{publicId}", h.Delete)
	r.Post("/wheel/{publicId}/join", h.Join)
	r.Post("/wheel/{publicId}/spin", h.Spin)
	r.Get("/wheel/{publicId}/render.gif", h.Render)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestCreate(t *testing.T) {
	svc := &fakeService{}
	w := do(t, newRouter(svc), http.MethodPost, "/wheel", `{"name":"Обед"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var got dto.WheelResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "w1" || got.Name != "Обед" || len(got.Participants) != 1 {
		t.Fatalf("response = %+v", got)
	}

	if w := do(t, newRouter(svc), http.MethodPost, "/wheel", `{"title":"x"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: status = %d", w.Code)
	}
}

func TestSpin(t *testing.T) {
	svc := &fakeService{}
	w := do(t, newRouter(svc), http.MethodPost, "/wheel/abc/spin", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.publicID != "abc" {
		t.Fatalf("public id = %q", svc.publicID)
	}
	var got dto.SpinResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Winner.UserID != "u2" || got.Selection.PointsWhenSelected != 3 || len(got.Participants) != 2 {
		t.Fatalf("response = %+v", got)
	}
}

func TestRender(t *testing.T) {
	w := do(t, newRouter(&fakeService{}), http.MethodGet, "/wheel/abc/render.gif", "")

	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/gif" {
		t.Fatalf("status = %d, content type %q", w.Code, w.Header().Get("Content-Type"))
	}
	if w.Body.String() != "GIF89a" {
		t.Fatalf("body = %q", w.Body)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: fmt.Errorf("%w: empty participant set", model.ErrInvalidInput), status: http.StatusBadRequest},
		{err: model.ErrUnauthorized, status: http.StatusUnauthorized},
		{err: model.ErrForbidden, status: http.StatusForbidden},
		{err: model.ErrWheelNotFound, status: http.StatusNotFound},
		{err: model.ErrNoSpin, status: http.StatusNotFound},
		{err: model.ErrAlreadyJoined, status: http.StatusConflict},
		{err: errors.New("db is gone"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := do(t, newRouter(&fakeService{err: tt.err}), http.MethodPost, "/wheel/abc/spin", "")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(w.Body.String(), "db is gone") {
				t.Fatal("internal error leaked to the client")
			}
		})
	}
}

func TestNoContentOperations(t *testing.T) {
	for _, tt := range []struct{ method, path string }{
		{http.MethodDelete, "/wheel/abc"},
		{http.MethodPost, "/wheel/abc/join"},
	} {
		svc := &fakeService{}
		if w := do(t, newRouter(svc), tt.method, tt.path, ""); w.Code != http.StatusNoContent {
			t.Fatalf("%s %s: status = %d", tt.method, tt.path, w.Code)
		}
		if svc.publicID != "abc" {
			t.Fatalf("%s %s: public id = %q", tt.method, tt.path, svc.publicID)
		}
	}

	w := do(t, newRouter(&fakeService{}), http.MethodGet, "/wheel/mine", "")
	var got []dto.WheelResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil || len(got) != 2 {
		t.Fatalf("mine = %v, %v", got, err)
	}
}
