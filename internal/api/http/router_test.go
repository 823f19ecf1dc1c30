package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/api/http/handlers"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
	"github.com/spec-kit/ticket-desk/internal/repository"
	"github.com/spec-kit/ticket-desk/internal/service"
)

// memoryRepo is an in-memory stand-in for the postgres repository.
type memoryRepo struct {
	tickets []domain.Ticket
}

func (m *memoryRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	now := time.Now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	m.tickets = append(m.tickets, *ticket)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for i := range m.tickets {
		if m.tickets[i].ID == id {
			ticket := m.tickets[i]
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryRepo) UpdatePartial(_ context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	for i := range m.tickets {
		if m.tickets[i].ID != id {
			continue
		}
		if patch.Title != nil {
			m.tickets[i].Title = *patch.Title
		}
		if patch.Description != nil {
			m.tickets[i].Description = *patch.Description
		}
		if patch.Category != nil {
			m.tickets[i].Category = *patch.Category
		}
		if patch.Priority != nil {
			m.tickets[i].Priority = *patch.Priority
		}
		if patch.Status != nil {
			m.tickets[i].Status = *patch.Status
		}
		m.tickets[i].UpdatedAt = time.Now()
		ticket := m.tickets[i]
		return &ticket, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for _, ticket := range m.tickets {
		if filter.Category != "" && string(ticket.Category) != filter.Category {
			continue
		}
		if filter.Priority != "" && string(ticket.Priority) != filter.Priority {
			continue
		}
		if filter.Status != "" && ticket.Status != filter.Status {
			continue
		}
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			if !strings.Contains(strings.ToLower(ticket.Title), search) &&
				!strings.Contains(strings.ToLower(ticket.Description), search) {
				continue
			}
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memoryRepo) Stats(_ context.Context, since time.Time) (repository.StatsRow, error) {
	row := repository.StatsRow{
		PriorityBreakdown: map[domain.TicketPriority]int64{},
		CategoryBreakdown: map[domain.TicketCategory]int64{},
	}
	for _, ticket := range m.tickets {
		row.Total++
		if ticket.Status == "open" {
			row.Open++
		}
		if ticket.CreatedAt.After(since) {
			row.CreatedSince++
		}
		row.PriorityBreakdown[ticket.Priority]++
		row.CategoryBreakdown[ticket.Category]++
	}
	return row, nil
}

type fixedSuggester struct {
	suggestion domain.Suggestion
}

func (f *fixedSuggester) Suggest(_ context.Context, _ string) (domain.Suggestion, error) {
	return f.suggestion, nil
}

func newTestApp(repo repository.TicketRepository, suggestion domain.Suggestion) *fiber.App {
	logger := zap.NewNop()
	app := fiber.New()
	RegisterMiddlewares(app, logger, 0)
	RegisterRoutes(app, RouteConfig{
		Health:   handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Tickets:  handlers.NewTicketsHandler(service.NewTicketService(repo, nil)),
		Classify: handlers.NewClassifyHandler(service.NewClassificationService(&fixedSuggester{suggestion: suggestion}, nil)),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*stdhttp.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func createTicket(t *testing.T, app *fiber.App, payload map[string]any) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, stdhttp.MethodPost, "/tickets/", payload)
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
	return body
}

func TestCreateTicketEndpoint(t *testing.T) {
	app := newTestApp(&memoryRepo{}, domain.DefaultSuggestion())

	body := createTicket(t, app, map[string]any{
		"title":       "Cannot log in",
		"description": "password reset email never arrives",
		"category":    "account",
		"priority":    "high",
	})

	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Cannot log in", body["title"])
	assert.Equal(t, "account", body["category"])
	assert.Equal(t, "high", body["priority"])
	assert.Equal(t, "open", body["status"])
	assert.NotEmpty(t, body["created_at"])
}

func TestCreateTicketEndpoint_ValidationFailure(t *testing.T) {
	app := newTestApp(&memoryRepo{}, domain.DefaultSuggestion())

	resp, body := doJSON(t, app, stdhttp.MethodPost, "/tickets/", map[string]any{
		"title":       "  ",
		"description": "fine",
		"category":    "urgent-billing",
	})
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
	details, ok := errObj["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "category")
}

func TestListTicketsEndpoint_FiltersAndOrder(t *testing.T) {
	repo := &memoryRepo{}
	app := newTestApp(repo, domain.DefaultSuggestion())

	createTicket(t, app, map[string]any{"title": "Refund request", "description": "charged twice", "category": "billing", "priority": "medium"})
	createTicket(t, app, map[string]any{"title": "Crash on save", "description": "app crashes", "category": "technical", "priority": "high"})
	createTicket(t, app, map[string]any{"title": "Question", "description": "how do refunds work?", "category": "general", "priority": "low"})

	// stagger created_at so the expected order is deterministic
	for i := range repo.tickets {
		repo.tickets[i].CreatedAt = time.Now().Add(time.Duration(i-3) * time.Minute)
	}

	req := httptest.NewRequest(stdhttp.MethodGet, "/tickets/", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	var all []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	require.Len(t, all, 3)
	assert.Equal(t, "Question", all[0]["title"])
	assert.Equal(t, "Refund request", all[2]["title"])

	req = httptest.NewRequest(stdhttp.MethodGet, "/tickets/?search=refund", nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	var matched []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&matched))
	assert.Len(t, matched, 2)

	req = httptest.NewRequest(stdhttp.MethodGet, "/tickets/?category=technical&priority=high", nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	var filtered []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "Crash on save", filtered[0]["title"])
}

func TestPatchTicketEndpoint(t *testing.T) {
	repo := &memoryRepo{}
	app := newTestApp(repo, domain.DefaultSuggestion())

	created := createTicket(t, app, map[string]any{"title": "Slow reports", "description": "report page takes 40s"})
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	resp, body := doJSON(t, app, stdhttp.MethodPatch, fmt.Sprintf("/tickets/%s/", id), map[string]any{
		"status":   "in_progress",
		"priority": "high",
	})
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", body["status"])
	assert.Equal(t, "high", body["priority"])
	assert.Equal(t, "Slow reports", body["title"])
}

func TestPatchTicketEndpoint_UnknownID(t *testing.T) {
	app := newTestApp(&memoryRepo{}, domain.DefaultSuggestion())

	resp, body := doJSON(t, app, stdhttp.MethodPatch, fmt.Sprintf("/tickets/%s/", uuid.NewString()), map[string]any{
		"status": "closed",
	})
	assert.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestPatchTicketEndpoint_ValidationFailure(t *testing.T) {
	repo := &memoryRepo{}
	app := newTestApp(repo, domain.DefaultSuggestion())
	created := createTicket(t, app, map[string]any{"title": "ok", "description": "ok"})

	resp, body := doJSON(t, app, stdhttp.MethodPatch, fmt.Sprintf("/tickets/%s/", created["id"]), map[string]any{
		"description": "   ",
	})
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	details, ok := errObj["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "description")
}

func TestStatsEndpoint(t *testing.T) {
	repo := &memoryRepo{}
	app := newTestApp(repo, domain.DefaultSuggestion())

	createTicket(t, app, map[string]any{"title": "a", "description": "x", "category": "billing", "priority": "high"})
	createTicket(t, app, map[string]any{"title": "b", "description": "y", "category": "billing", "priority": "low"})
	createTicket(t, app, map[string]any{"title": "c", "description": "z", "category": "technical", "priority": "high", "status": "closed"})

	resp, body := doJSON(t, app, stdhttp.MethodGet, "/tickets/stats/", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

	assert.EqualValues(t, 3, body["total_tickets"])
	assert.EqualValues(t, 2, body["open_tickets"])
	assert.InDelta(t, 0.1, body["avg_tickets_per_day"], 1e-9)

	priorities, ok := body["priority_breakdown"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, priorities["high"])
	assert.EqualValues(t, 1, priorities["low"])
	assert.NotContains(t, priorities, "critical")

	categories, ok := body["category_breakdown"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, categories["billing"])
	assert.EqualValues(t, 1, categories["technical"])
}

func TestClassifyEndpoint_BlankDescription(t *testing.T) {
	app := newTestApp(&memoryRepo{}, domain.DefaultSuggestion())

	resp, body := doJSON(t, app, stdhttp.MethodPost, "/tickets/classify/", map[string]any{
		"description": "   ",
	})
	assert.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BAD_REQUEST", errObj["code"])
}

func TestClassifyEndpoint_ReturnsSuggestion(t *testing.T) {
	app := newTestApp(&memoryRepo{}, domain.Suggestion{
		Category: domain.CategoryBilling,
		Priority: domain.PriorityHigh,
	})

	resp, body := doJSON(t, app, stdhttp.MethodPost, "/tickets/classify/", map[string]any{
		"description": "wrong amount on my invoice",
	})
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "billing", body["suggested_category"])
	assert.Equal(t, "high", body["suggested_priority"])
}

func TestClassifyEndpoint_DefaultSuggestion(t *testing.T) {
	app := newTestApp(&memoryRepo{}, domain.DefaultSuggestion())

	resp, body := doJSON(t, app, stdhttp.MethodPost, "/tickets/classify/", map[string]any{
		"description": "something vague",
	})
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "general", body["suggested_category"])
	assert.Equal(t, "medium", body["suggested_priority"])
}

func TestHealthLiveEndpoint(t *testing.T) {
	app := newTestApp(&memoryRepo{}, domain.DefaultSuggestion())

	resp, body := doJSON(t, app, stdhttp.MethodGet, "/health/live", nil)
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
}
