package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/observability"
	"github.com/spec-kit/ticket-desk/internal/repository"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// statsWindowDays is the trailing window used for the per-day average.
const statsWindowDays = 30

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Status      string
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// CreateTicket validates and persists a new ticket. Absent category,
// priority, and status fall back to general/medium/open.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if problems := ValidateCreate(input); len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket fields", problems)
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      strings.TrimSpace(input.Status),
	}
	if ticket.Category == "" {
		ticket.Category = domain.CategoryGeneral
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.PriorityMedium
	}
	if ticket.Status == "" {
		ticket.Status = domain.StatusOpen
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	observability.RecordTicketCreated()
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Category: ticket.Category,
			Priority: ticket.Priority,
			Title:    ticket.Title,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets matching the filter, newest first.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// PatchTicket applies the supplied fields to an existing ticket,
// re-validating only what the patch carries.
func (s *TicketService) PatchTicket(ctx context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	if problems := ValidatePatch(patch); len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket fields", problems)
	}

	ticket, err := s.tickets.UpdatePartial(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			ChangedFields: changedFields(patch),
			Status:        ticket.Status,
		},
	})
	return ticket, nil
}

// Stats computes aggregate metrics over the full ticket set as of now.
// The per-day average covers the trailing 30 days and is rounded to one
// decimal place, half away from zero.
func (s *TicketService) Stats(ctx context.Context) (*domain.TicketStats, error) {
	since := time.Now().AddDate(0, 0, -statsWindowDays)
	row, err := s.tickets.Stats(ctx, since)
	if err != nil {
		return nil, err
	}
	return &domain.TicketStats{
		TotalTickets:      row.Total,
		OpenTickets:       row.Open,
		AvgTicketsPerDay:  roundToTenth(float64(row.CreatedSince) / statsWindowDays),
		PriorityBreakdown: row.PriorityBreakdown,
		CategoryBreakdown: row.CategoryBreakdown,
	}, nil
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func changedFields(patch repository.TicketPatch) []string {
	fields := []string{}
	if patch.Title != nil {
		fields = append(fields, "title")
	}
	if patch.Description != nil {
		fields = append(fields, "description")
	}
	if patch.Category != nil {
		fields = append(fields, "category")
	}
	if patch.Priority != nil {
		fields = append(fields, "priority")
	}
	if patch.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
