package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-desk/internal/classifier"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// ClassificationService fronts the classification gateway. It owns the
// single input check (non-blank description); everything past that is
// the gateway's degrade-to-default contract. It never touches the store.
type ClassificationService struct {
	suggester  classifier.Suggester
	dispatcher events.Dispatcher
}

// NewClassificationService constructs the service.
func NewClassificationService(suggester classifier.Suggester, dispatcher events.Dispatcher) *ClassificationService {
	return &ClassificationService{suggester: suggester, dispatcher: dispatcher}
}

// Classify returns an advisory suggestion for the description.
func (s *ClassificationService) Classify(ctx context.Context, description string) (domain.Suggestion, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return domain.Suggestion{}, apperrors.NewBadRequest("description is required")
	}

	suggestion, err := s.suggester.Suggest(ctx, trimmed)
	if err != nil {
		// gateways degrade internally; a residual error still maps to the default
		suggestion = domain.DefaultSuggestion()
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketClassified,
			Timestamp: time.Now(),
			Payload: events.TicketClassifiedPayload{
				SuggestedCategory: suggestion.Category,
				SuggestedPriority: suggestion.Priority,
			},
		})
	}
	return suggestion, nil
}
