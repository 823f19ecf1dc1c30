package domain

import "time"

// TicketCategory is the closed set of ticket categories.
type TicketCategory string

const (
	CategoryBilling   TicketCategory = "billing"
	CategoryTechnical TicketCategory = "technical"
	CategoryAccount   TicketCategory = "account"
	CategoryGeneral   TicketCategory = "general"
)

// TicketPriority is the closed set of ticket priorities.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "low"
	PriorityMedium   TicketPriority = "medium"
	PriorityHigh     TicketPriority = "high"
	PriorityCritical TicketPriority = "critical"
)

// StatusOpen is the status assigned at creation. Status is a free-running
// field: filterable, but not constrained to a closed set by validation.
const StatusOpen = "open"

// Categories returns the valid category values in declaration order.
func Categories() []TicketCategory {
	return []TicketCategory{CategoryBilling, CategoryTechnical, CategoryAccount, CategoryGeneral}
}

// Priorities returns the valid priority values in declaration order.
func Priorities() []TicketPriority {
	return []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// Valid reports whether the category is a member of the closed set.
func (c TicketCategory) Valid() bool {
	for _, candidate := range Categories() {
		if c == candidate {
			return true
		}
	}
	return false
}

// Valid reports whether the priority is a member of the closed set.
func (p TicketPriority) Valid() bool {
	for _, candidate := range Priorities() {
		if p == candidate {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Category    TicketCategory
	Priority    TicketPriority
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Suggestion is an advisory classification for a free-text description.
// It is never applied automatically; the caller decides whether to use it.
type Suggestion struct {
	Category TicketCategory
	Priority TicketPriority
}

// DefaultSuggestion is the deterministic fallback returned whenever the
// classification backend is unconfigured, unreachable, or its output
// fails validation.
func DefaultSuggestion() Suggestion {
	return Suggestion{Category: CategoryGeneral, Priority: PriorityMedium}
}

// TicketStats aggregates live metrics over the full ticket set.
type TicketStats struct {
	TotalTickets      int64
	OpenTickets       int64
	AvgTicketsPerDay  float64
	PriorityBreakdown map[TicketPriority]int64
	CategoryBreakdown map[TicketCategory]int64
}
