package broadcast

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"spinny_backend/internal/model"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var eventKinds = []model.EventKind{model.EventSpin, model.EventJoin, model.EventLeave, model.EventDelete}

// ValidatingPublisher проверяет данные события по JSON схеме перед отправкой
type ValidatingPublisher struct {
	next    Publisher
	schemas map[model.EventKind]*jsonschema.Schema
}

func NewValidatingPublisher(next Publisher) (*ValidatingPublisher, error) {
	c := jsonschema.NewCompiler()
	for _, kind := range eventKinds {
		data, err := schemaFS.ReadFile("schemas/" + string(kind) + ".json")
		if err != nil {
			return nil, err
		}
		name := schemaURL(kind)
		if err := c.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	schemas := make(map[model.EventKind]*jsonschema.Schema, len(eventKinds))
	for _, kind := range eventKinds {
		s, err := c.Compile(schemaURL(kind))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", kind, err)
		}
		schemas[kind] = s
	}

	return &ValidatingPublisher{next: next, schemas: schemas}, nil
}

func schemaURL(kind model.EventKind) string {
	return "mem://spinny/events/" + string(kind) + ".json"
}

// Validate проверяет тип события и данные
func (v *ValidatingPublisher) Validate(kind model.EventKind, payload map[string]any) error {
	s, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("%w: unknown event %q", model.ErrInvalidInput, kind)
	}

	// Схема проверяет JSON значения, поэтому данные проходят через json
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s payload: %v", model.ErrInvalidInput, kind, err)
	}
	return nil
}

func (v *ValidatingPublisher) Publish(ctx context.Context, wheelID string, kind model.EventKind, payload map[string]any) error {
	if err := v.Validate(kind, payload); err != nil {
		return err
	}
	return v.next.Publish(ctx, wheelID, kind, payload)
}
