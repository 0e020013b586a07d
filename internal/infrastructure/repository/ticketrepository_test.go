package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-crm/corvid/internal/domain/ticket"
	vo "github.com/corvid-crm/corvid/internal/domain/ticket/valueobjects"
	"github.com/corvid-crm/corvid/internal/shared/errors"
)

var repoNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func createTicket(t *testing.T, repo *TicketRepository, number string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(5, "VPN drops", "connection resets hourly", vo.PriorityHigh, vo.SupportTechnical, repoNow)
	require.NoError(t, err)
	require.NoError(t, tk.SetNumber(number))
	require.NoError(t, repo.Create(t.Context(), tk))
	return tk
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	tk := createTicket(t, repo, "T2025-0001")
	require.NotZero(t, tk.ID())

	got, err := repo.GetByID(t.Context(), tk.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T2025-0001", got.Number())
	assert.Equal(t, vo.StatusOpen, got.Status())
	assert.Equal(t, vo.PriorityHigh, got.Priority())
	assert.True(t, repoNow.Equal(got.CreatedAt()))

	missing, err := repo.GetByID(t.Context(), 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketRepository_DuplicateNumberIsDetected(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	createTicket(t, repo, "T2025-0001")

	dup, err := ticket.NewTicket(6, "Other", "", vo.PriorityLow, vo.SupportOther, repoNow)
	require.NoError(t, err)
	require.NoError(t, dup.SetNumber("T2025-0001"))

	err = repo.Create(t.Context(), dup)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateError(err))
}

func TestTicketRepository_UpdatePersistsClearedFields(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	tk := createTicket(t, repo, "T2025-0001")

	_, err := tk.Close("fixed router", 40, repoNow.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Update(t.Context(), tk))

	closed, err := repo.GetByID(t.Context(), tk.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosed, closed.Status())
	assert.Equal(t, 40, closed.TimeSpentMinutes())
	require.NotNil(t, closed.ClosedAt())

	closed.Reopen(repoNow.Add(2 * time.Hour))
	require.NoError(t, repo.Update(t.Context(), closed))

	reopened, err := repo.GetByID(t.Context(), tk.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusOpen, reopened.Status())
	assert.Nil(t, reopened.ClosedAt())
	assert.True(t, repoNow.Add(2*time.Hour).Equal(reopened.UpdatedAt()))
}

func TestTicketRepository_CountByNumberPrefix(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	createTicket(t, repo, "T2024-0007")
	createTicket(t, repo, "T2025-0001")
	createTicket(t, repo, "T2025-0002")

	count, err := repo.CountByNumberPrefix(t.Context(), ticket.NumberPrefix(2025))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTicketRepository_LatestNumberByPrefix(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t))
	prefix := ticket.NumberPrefix(2025)

	latest, err := repo.LatestNumberByPrefix(t.Context(), prefix)
	require.NoError(t, err)
	assert.Empty(t, latest)

	createTicket(t, repo, "T2026-0001")
	createTicket(t, repo, "T2025-9999")
	createTicket(t, repo, "T2025-10000")
	createTicket(t, repo, "T2025-0042")

	latest, err = repo.LatestNumberByPrefix(t.Context(), prefix)
	require.NoError(t, err)
	assert.Equal(t, "T2025-10000", latest)
}

func TestTicketRepository_DeleteRemovesActivity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTicketRepository(db)
	activity := NewTicketActivityRepository(db)
	tk := createTicket(t, repo, "T2025-0001")

	require.NoError(t, activity.Append(t.Context(), tk.CreatedEntry()))
	entries, err := activity.ListByTicketID(t.Context(), tk.ID())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, repo.Delete(t.Context(), tk.ID()))

	gone, err := repo.GetByID(t.Context(), tk.ID())
	require.NoError(t, err)
	assert.Nil(t, gone)
	entries, err = activity.ListByTicketID(t.Context(), tk.ID())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTicketMessageRepository_RoundTripsAuthor(t *testing.T) {
	db := setupTestDB(t)
	tickets := NewTicketRepository(db)
	messages := NewTicketMessageRepository(db)
	tk := createTicket(t, tickets, "T2025-0001")

	staffMsg, _, err := tk.AddMessage(ticket.StaffAuthor(7), "looking into it", false, repoNow)
	require.NoError(t, err)
	require.NoError(t, messages.Create(t.Context(), staffMsg))

	clientMsg, _, err := tk.AddMessage(ticket.ClientAuthor(3), "thanks", false, repoNow.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, messages.Create(t.Context(), clientMsg))

	count, err := messages.CountByTicketID(t.Context(), tk.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := messages.ListByTicketID(t.Context(), tk.ID())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Author().IsStaff())
	assert.True(t, list[1].Author().IsClient())
	assert.Equal(t, "thanks", list[1].Body())
}
