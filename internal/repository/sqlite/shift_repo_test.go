package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shift-bot/internal/domain"
	"shift-bot/internal/model"
)

var testLoc = time.FixedZone("MSK", 3*60*60)

func newTestRepo(t *testing.T) (*SqliteShiftRepo, *sql.DB) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "shifts.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db, zap.NewNop()))
	return NewSqliteShiftRepo(db, testLoc), db
}

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, testLoc)
	if err != nil {
		panic(err)
	}
	return t
}

func openShift(t *testing.T, repo *SqliteShiftRepo, userID int64, name, start string) model.ShiftRecord {
	t.Helper()
	shift, err := repo.InsertShift(context.Background(), model.ShiftRecord{
		UserID:      userID,
		DisplayName: name,
		StartTime:   at(start),
		CreatedAt:   at(start),
	})
	require.NoError(t, err)
	return shift
}

func closeWith(end string, hours, pay float64) domain.CloseFunc {
	return func(s model.ShiftRecord) model.ShiftRecord {
		e := at(end)
		s.EndTime, s.Hours, s.Pay = &e, &hours, &pay
		return s
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	_, db := newTestRepo(t)
	require.NoError(t, Migrate(db, zap.NewNop()))
}

func TestInsertShift_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	inserted, err := repo.InsertShift(ctx, model.ShiftRecord{
		UserID:      10,
		DisplayName: "alice",
		StartTime:   at("2024-01-01 09:00:42"),
		CreatedAt:   at("2024-01-01 09:00:42"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted.ID)

	got, ok, err := repo.FindOpenShift(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, inserted.ID, got.ID)
	assert.Equal(t, "alice", got.DisplayName)
	assert.True(t, at("2024-01-01 09:00:00").Equal(got.StartTime))
	assert.True(t, at("2024-01-01 09:00:42").Equal(got.CreatedAt))
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.Hours)
	assert.Nil(t, got.Pay)
}

func TestFindOpenShift_LatestByID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// вторая смена открыта раньше по времени, но у неё больший id
	openShift(t, repo, 10, "alice", "2024-01-01 10:00:00")
	second := openShift(t, repo, 10, "alice", "2024-01-01 08:00:00")
	openShift(t, repo, 20, "bob", "2024-01-01 11:00:00")

	got, ok, err := repo.FindOpenShift(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)

	_, ok, err = repo.FindOpenShift(ctx, 30)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCloseOpenShift(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	shift := openShift(t, repo, 10, "alice", "2024-01-01 09:00:00")

	closed, err := repo.CloseOpenShift(ctx, 10, closeWith("2024-01-01 11:30:59", 2.52, 1008))
	require.NoError(t, err)
	assert.Equal(t, shift.ID, closed.ID)
	require.NotNil(t, closed.EndTime)
	assert.True(t, at("2024-01-01 11:30:00").Equal(*closed.EndTime))

	shifts, err := repo.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	require.NotNil(t, shifts[0].EndTime)
	assert.True(t, at("2024-01-01 11:30:00").Equal(*shifts[0].EndTime))
	assert.Equal(t, 2.52, *shifts[0].Hours)
	assert.Equal(t, 1008.0, *shifts[0].Pay)

	_, err = repo.CloseOpenShift(ctx, 10, closeWith("2024-01-01 12:00:00", 3, 1200))
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
}

func TestCloseOpenShift_NoOpenShiftMutatesNothing(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	openShift(t, repo, 20, "bob", "2024-01-01 09:00:00")

	called := false
	_, err := repo.CloseOpenShift(ctx, 10, func(s model.ShiftRecord) model.ShiftRecord {
		called = true
		return s
	})
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)
	assert.False(t, called)

	got, ok, err := repo.FindOpenShift(ctx, 20)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, got.EndTime)
}

func TestCloseOpenShift_IncompleteCloseRejected(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	openShift(t, repo, 10, "alice", "2024-01-01 09:00:00")

	_, err := repo.CloseOpenShift(ctx, 10, func(s model.ShiftRecord) model.ShiftRecord {
		end := at("2024-01-01 10:00:00")
		s.EndTime = &end
		return s
	})
	require.Error(t, err)

	_, ok, err := repo.FindOpenShift(ctx, 10)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCloseOpenShift_Concurrent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	openShift(t, repo, 10, "alice", "2024-01-01 09:00:00")

	const attempts = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		noShift  int
		otherErr []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CloseOpenShift(ctx, 10, closeWith("2024-01-01 10:00:00", 1, 400))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, domain.ErrNoOpenShift):
				noShift++
			default:
				otherErr = append(otherErr, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, otherErr)
	assert.Equal(t, 1, success)
	assert.Equal(t, attempts-1, noShift)
}

func TestUserStats(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	openShift(t, repo, 10, "alice", "2024-01-01 09:00:00")
	_, err := repo.CloseOpenShift(ctx, 10, closeWith("2024-01-01 11:00:00", 2, 800))
	require.NoError(t, err)
	openShift(t, repo, 10, "alice", "2024-01-02 09:00:00")
	_, err = repo.CloseOpenShift(ctx, 10, closeWith("2024-01-02 09:30:00", 0.5, 200))
	require.NoError(t, err)
	openShift(t, repo, 10, "alice", "2024-01-03 09:00:00")

	stats, err := repo.UserStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, model.UserStats{SessionCount: 2, TotalHours: 2.5, TotalPay: 1000}, stats)

	empty, err := repo.UserStats(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, model.UserStats{}, empty)
}

func TestGlobalStatsAndListUsers_FirstSeenOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	openShift(t, repo, 20, "bob", "2024-01-01 08:00:00")
	_, err := repo.CloseOpenShift(ctx, 20, closeWith("2024-01-01 09:00:00", 1, 400))
	require.NoError(t, err)
	openShift(t, repo, 10, "alice", "2024-01-01 09:00:00")
	_, err = repo.CloseOpenShift(ctx, 10, closeWith("2024-01-01 11:00:00", 2, 800))
	require.NoError(t, err)
	// alice сменила имя: появится отдельной строкой
	openShift(t, repo, 10, "alice_new", "2024-01-02 09:00:00")
	openShift(t, repo, 30, "carol", "2024-01-02 10:00:00")

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.UserRef{
		{UserID: 20, DisplayName: "bob"},
		{UserID: 10, DisplayName: "alice"},
		{UserID: 10, DisplayName: "alice_new"},
		{UserID: 30, DisplayName: "carol"},
	}, users)

	stats, err := repo.GlobalStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 4)
	assert.Equal(t, model.UserSummary{
		UserRef:   model.UserRef{UserID: 20, DisplayName: "bob"},
		UserStats: model.UserStats{SessionCount: 1, TotalHours: 1, TotalPay: 400},
	}, stats[0])
	assert.Equal(t, "alice", stats[1].DisplayName)
	assert.Equal(t, "alice_new", stats[2].DisplayName)
	assert.Equal(t, stats[1].UserStats, stats[2].UserStats)
	assert.Equal(t, 2.0, stats[1].TotalHours)
	assert.Equal(t, model.UserStats{}, stats[3].UserStats)
}

func TestDeleteUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	openShift(t, repo, 10, "alice", "2024-01-01 09:00:00")
	_, err := repo.CloseOpenShift(ctx, 10, closeWith("2024-01-01 10:00:00", 1, 400))
	require.NoError(t, err)
	openShift(t, repo, 10, "alice", "2024-01-01 11:00:00")
	openShift(t, repo, 20, "bob", "2024-01-01 11:00:00")

	n, err := repo.DeleteUser(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.UserRef{{UserID: 20, DisplayName: "bob"}}, users)

	n, err = repo.DeleteUser(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteAll_ResetsIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	openShift(t, repo, 10, "alice", "2024-01-01 09:00:00")
	openShift(t, repo, 20, "bob", "2024-01-01 09:00:00")

	require.NoError(t, repo.DeleteAll(ctx))

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	fresh := openShift(t, repo, 30, "carol", "2024-01-02 09:00:00")
	assert.Equal(t, int64(1), fresh.ID)
}

func TestCheckConstraint_HoursWithoutEnd(t *testing.T) {
	_, db := newTestRepo(t)

	_, err := db.Exec(`INSERT INTO shifts (user_id, name, start_time, hours, created_at) VALUES (1, 'x', '2024-01-01 09:00', 1.0, '2024-01-01 09:00:00')`)
	assert.Error(t, err)
}

func TestStorageUnavailable(t *testing.T) {
	repo, db := newTestRepo(t)
	require.NoError(t, db.Close())

	_, err := repo.InsertShift(context.Background(), model.ShiftRecord{UserID: 1, DisplayName: "x"})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, _, err = repo.FindOpenShift(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
