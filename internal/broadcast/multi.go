package broadcast

import (
	"context"
	"errors"

	"spinny_backend/internal/model"
)

// MultiPublisher рассылает событие всем получателям и собирает ошибки
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, wheelID string, kind model.EventKind, payload map[string]any) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, wheelID, kind, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
