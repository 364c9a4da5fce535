package service

import (
	"context"
	"sync"

	"shift-bot/internal/domain"
	"shift-bot/internal/model"
)

// ── Mock ShiftRepo ──

type mockShiftRepo struct {
	mu     sync.Mutex
	shifts []model.ShiftRecord
	nextID int64
	err    error
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{nextID: 1}
}

func (m *mockShiftRepo) InsertShift(_ context.Context, shift model.ShiftRecord) (model.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.ShiftRecord{}, m.err
	}
	shift.ID = m.nextID
	m.nextID++
	m.shifts = append(m.shifts, shift)
	return shift, nil
}

func (m *mockShiftRepo) FindOpenShift(_ context.Context, userID int64) (model.ShiftRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.ShiftRecord{}, false, m.err
	}
	i := m.openIndex(userID)
	if i < 0 {
		return model.ShiftRecord{}, false, nil
	}
	return m.shifts[i], true, nil
}

func (m *mockShiftRepo) openIndex(userID int64) int {
	best := -1
	for i, s := range m.shifts {
		if s.UserID == userID && s.EndTime == nil && (best < 0 || s.ID > m.shifts[best].ID) {
			best = i
		}
	}
	return best
}

func (m *mockShiftRepo) CloseOpenShift(_ context.Context, userID int64, closeFn domain.CloseFunc) (model.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.ShiftRecord{}, m.err
	}
	i := m.openIndex(userID)
	if i < 0 {
		return model.ShiftRecord{}, domain.ErrNoOpenShift
	}
	closed := closeFn(m.shifts[i])
	m.shifts[i] = closed
	return closed, nil
}

func (m *mockShiftRepo) UserStats(_ context.Context, userID int64) (model.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.UserStats{}, m.err
	}
	var st model.UserStats
	for _, s := range m.shifts {
		if s.UserID == userID && s.Hours != nil {
			st.SessionCount++
			st.TotalHours += *s.Hours
			st.TotalPay += *s.Pay
		}
	}
	return st, nil
}

func (m *mockShiftRepo) GlobalStats(ctx context.Context) ([]model.UserSummary, error) {
	users, err := m.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		st, _ := m.UserStats(ctx, u.UserID)
		out = append(out, model.UserSummary{UserRef: u, UserStats: st})
	}
	return out, nil
}

func (m *mockShiftRepo) ListUsers(_ context.Context) ([]model.UserRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	seen := map[model.UserRef]bool{}
	var out []model.UserRef
	for _, s := range m.shifts {
		ref := model.UserRef{UserID: s.UserID, DisplayName: s.DisplayName}
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out, nil
}

func (m *mockShiftRepo) ListShifts(_ context.Context) ([]model.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]model.ShiftRecord(nil), m.shifts...), nil
}

func (m *mockShiftRepo) DeleteUser(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	kept := m.shifts[:0]
	var n int64
	for _, s := range m.shifts {
		if s.UserID == userID {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.shifts = kept
	return n, nil
}

func (m *mockShiftRepo) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.shifts = nil
	m.nextID = 1
	return nil
}
