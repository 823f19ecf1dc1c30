package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/repository"
)

// Field-level validation for ticket writes. Only fields present in the
// payload are checked; an empty map means the payload is acceptable.
// Status is intentionally unvalidated: it is a free-running field.

// ValidateCreate checks a full creation payload.
func ValidateCreate(input TicketCreateInput) map[string]any {
	problems := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		problems["title"] = "Title cannot be blank."
	}
	if strings.TrimSpace(input.Description) == "" {
		problems["description"] = "Description cannot be blank."
	}
	if input.Category != "" && !input.Category.Valid() {
		problems["category"] = categoryMessage()
	}
	if input.Priority != "" && !input.Priority.Valid() {
		problems["priority"] = priorityMessage()
	}
	return problems
}

// ValidatePatch checks only the fields supplied in a partial update.
func ValidatePatch(patch repository.TicketPatch) map[string]any {
	problems := map[string]any{}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		problems["title"] = "Title cannot be blank."
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		problems["description"] = "Description cannot be blank."
	}
	if patch.Category != nil && !patch.Category.Valid() {
		problems["category"] = categoryMessage()
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		problems["priority"] = priorityMessage()
	}
	return problems
}

func categoryMessage() string {
	return fmt.Sprintf("Must be one of: %s", joinCategories())
}

func priorityMessage() string {
	return fmt.Sprintf("Must be one of: %s", joinPriorities())
}

func joinCategories() string {
	values := domain.Categories()
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}

func joinPriorities() string {
	values := domain.Priorities()
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
