package dto

import (
	"time"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      string                `json:"status"`
}

// UpdateTicketRequest carries a partial update; absent fields stay nil.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Category    *domain.TicketCategory `json:"category"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      *string                `json:"status"`
}

// TicketResponse is the persisted ticket as exposed to clients.
// id, created_at and updated_at are server-assigned and read-only.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      string                `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// StatsResponse aggregates live ticket metrics.
type StatsResponse struct {
	TotalTickets      int64                           `json:"total_tickets"`
	OpenTickets       int64                           `json:"open_tickets"`
	AvgTicketsPerDay  float64                         `json:"avg_tickets_per_day"`
	PriorityBreakdown map[domain.TicketPriority]int64 `json:"priority_breakdown"`
	CategoryBreakdown map[domain.TicketCategory]int64 `json:"category_breakdown"`
}

// ClassifyRequest payload.
type ClassifyRequest struct {
	Description string `json:"description"`
}

// ClassifyResponse is the advisory suggestion for a description.
type ClassifyResponse struct {
	SuggestedCategory domain.TicketCategory `json:"suggested_category"`
	SuggestedPriority domain.TicketPriority `json:"suggested_priority"`
}
