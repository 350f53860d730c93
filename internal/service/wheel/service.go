package wheel

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"spinny_backend/internal/broadcast"
	"spinny_backend/internal/config"
	"spinny_backend/internal/lib/logger/sl"
	"spinny_backend/internal/middleware"
	"spinny_backend/internal/model"
	"spinny_backend/internal/repository"
	"spinny_backend/internal/service"
	"spinny_backend/pkg/lottery"
)

const (
	// Длина публичного ID колеса
	publicIDLen = 16
	// Сколько записей истории отдавать вместе с колесом
	historyLimit = 50
	// Сколько держать последнюю прокрутку и ее GIF в кэше
	lastSpinTTL = 30 * time.Minute
	// Одновременных рендеров GIF на процесс
	maxConcurrentRenders = 2
	// Больше кадров в GIF не сохраняется, шаг подбирается под длину прокрутки
	maxGIFFrames = 150
)

type serv struct {
	wheelRepo       repository.WheelRepository
	participantRepo repository.ParticipantRepository
	historyRepo     repository.HistoryRepository
	userRepo        repository.UserRepository
	txManager       trm.Manager
	publisher       broadcast.Publisher
	spinCfg         config.SpinConfig
	lastSpins       *cache.Cache
	log             *slog.Logger

	// GIF по ID записи истории: одна прокрутка рендерится один раз
	renders     *cache.Cache
	renderSem   *semaphore.Weighted
	renderGroup singleflight.Group
	render      func(ctx context.Context, publicID string, segments []model.Participant, winner model.Participant) ([]byte, error)

	rnd   lottery.RandomSource
	now   func() time.Time
	newID func() string
}

// NewWheelService Создать сервис колес
func NewWheelService(
	wheelRepo repository.WheelRepository,
	participantRepo repository.ParticipantRepository,
	historyRepo repository.HistoryRepository,
	userRepo repository.UserRepository,
	txManager trm.Manager,
	publisher broadcast.Publisher,
	spinCfg config.SpinConfig,
	log *slog.Logger,
) service.WheelService {
	s := &serv{
		wheelRepo:       wheelRepo,
		participantRepo: participantRepo,
		historyRepo:     historyRepo,
		userRepo:        userRepo,
		txManager:       txManager,
		publisher:       publisher,
		spinCfg:         spinCfg,
		lastSpins:       cache.New(lastSpinTTL, 2*lastSpinTTL),
		log:             log.With(slog.String("component", "service/wheel")),
		rnd:             lottery.NewSource(),
		now:             time.Now,
		newID:           newPublicID,
		renders:         cache.New(lastSpinTTL, 2*lastSpinTTL),
		renderSem:       semaphore.NewWeighted(maxConcurrentRenders),
	}
	s.render = s.renderGIF
	return s
}

func newPublicID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:publicIDLen]
}

// callerID - ID пользователя из контекста или model.ErrUnauthorized
func callerID(ctx context.Context) (string, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return "", model.ErrUnauthorized
	}
	return userID, nil
}

// remember сохраняет имя из токена, чтобы оно появилось на сегменте колеса
func (s *serv) remember(ctx context.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok || user.Name == "" {
		return nil
	}
	return s.userRepo.Upsert(ctx, &user)
}

// publish рассылает событие после коммита. Ошибка доставки операцию не откатывает
func (s *serv) publish(ctx context.Context, publicID string, kind model.EventKind, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, publicID, kind, payload); err != nil {
		s.log.Warn("failed to broadcast wheel event",
			sl.Err(err),
			slog.String("wheel", publicID),
			slog.String("event", string(kind)),
		)
	}
}
