package manual

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/domain/catalogs/store"
	"transita/internal/domain/transfers"
)

type mockRepo struct {
	transfers   map[id.ID]*Transfer
	items       map[id.ID][]Item
	createCalls int
	deleteCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		transfers: make(map[id.ID]*Transfer),
		items:     make(map[id.ID][]Item),
	}
}

func (m *mockRepo) Create(_ context.Context, t *Transfer) error {
	m.createCalls++
	cp := *t
	m.transfers[t.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, transferID id.ID) (*Transfer, error) {
	t, ok := m.transfers[transferID]
	if !ok {
		return nil, apperror.NewNotFound("manual transfer", transferID.String())
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, t *Transfer) error {
	cp := *t
	m.transfers[t.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, transferID id.ID) error {
	m.deleteCalls++
	delete(m.transfers, transferID)
	return nil
}

func (m *mockRepo) List(_ context.Context, flaggedOnly bool) ([]Transfer, error) {
	var out []Transfer
	for _, t := range m.transfers {
		if flaggedOnly == (t.Flag == 1) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockRepo) SaveItems(_ context.Context, transferID id.ID, items []Item) error {
	m.items[transferID] = items
	return nil
}

func (m *mockRepo) GetItems(_ context.Context, transferID id.ID) ([]Item, error) {
	return m.items[transferID], nil
}

func (m *mockRepo) Stats(_ context.Context) (*Stats, error) {
	stats := &Stats{StatusCounts: make(map[transfers.Status]int)}
	for _, t := range m.transfers {
		if t.Flag == 1 {
			continue
		}
		stats.StatusCounts[t.Status]++
		stats.TotalQuantity += t.TotalQuantity
		stats.Count++
	}
	return stats, nil
}

type mockStoreRepo struct {
	known map[id.ID]bool
}

func (m *mockStoreRepo) Create(context.Context, *store.Store) error  { return nil }
func (m *mockStoreRepo) Update(context.Context, *store.Store) error  { return nil }
func (m *mockStoreRepo) Delete(context.Context, id.ID) error         { return nil }
func (m *mockStoreRepo) ActiveNames(context.Context) ([]string, error) { return nil, nil }

func (m *mockStoreRepo) GetByID(_ context.Context, storeID id.ID) (*store.Store, error) {
	return nil, apperror.NewNotFound("store", storeID.String())
}

func (m *mockStoreRepo) GetByName(_ context.Context, name string) (*store.Store, error) {
	return nil, apperror.NewNotFound("store", name)
}

func (m *mockStoreRepo) List(context.Context, store.ListFilter) ([]store.Store, error) {
	return nil, nil
}

func (m *mockStoreRepo) Exists(_ context.Context, storeID id.ID) (bool, error) {
	return m.known[storeID], nil
}

func (m *mockStoreRepo) ExistsByCode(context.Context, string, *id.ID) (bool, error) {
	return false, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *mockRepo, knownIDs ...id.ID) *Service {
	known := make(map[id.ID]bool)
	for _, v := range knownIDs {
		known[v] = true
	}
	stores := store.NewService(&mockStoreRepo{known: known})
	return NewService(repo, stores, passthroughTxManager{})
}

func validTransfer(from, to id.ID) *Transfer {
	t := New(from, to, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC))
	t.Items = []Item{
		{ID: id.New(), TransferID: t.ID, Barcode: "8433674001112", Quantity: 2},
		{ID: id.New(), TransferID: t.ID, Barcode: "8433674001129", Quantity: 3},
	}
	return t
}

func TestValidate_ManualTransfer(t *testing.T) {
	from, to := id.New(), id.New()

	tests := []struct {
		name   string
		mutate func(*Transfer)
		valid  bool
	}{
		{"valid", func(*Transfer) {}, true},
		{"same endpoints", func(tr *Transfer) { tr.ToStoreID = tr.FromStoreID }, false},
		{"nil source", func(tr *Transfer) { tr.FromStoreID = id.Nil() }, false},
		{"no items", func(tr *Transfer) { tr.Items = nil }, false},
		{"zero quantity item", func(tr *Transfer) { tr.Items[0].Quantity = 0 }, false},
		{"empty barcode", func(tr *Transfer) { tr.Items[1].Barcode = "" }, false},
		{"bad import method", func(tr *Transfer) { tr.ImportMethod = "email" }, false},
		{"legacy error status", func(tr *Transfer) { tr.Status = transfers.StatusError }, false},
		{"scan method", func(tr *Transfer) { tr.ImportMethod = MethodScan }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTransfer(from, to)
			tt.mutate(tr)
			err := tr.Validate(context.Background())
			if tt.valid {
				assert.NoError(t, err)
			} else {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			}
		})
	}
}

func TestCreate_TotalsFollowItems(t *testing.T) {
	from, to := id.New(), id.New()
	repo := newMockRepo()
	svc := newTestService(repo, from, to)

	tr := validTransfer(from, to)
	tr.TotalQuantity = 42 // stale
	require.NoError(t, svc.Create(context.Background(), tr))

	assert.Equal(t, 5, tr.TotalQuantity)
	assert.Equal(t, 1, repo.createCalls)
	assert.Len(t, repo.items[tr.ID], 2)
}

func TestCreate_UnknownStoreRejected(t *testing.T) {
	from, to := id.New(), id.New()
	repo := newMockRepo()
	svc := newTestService(repo, from) // to unknown

	err := svc.Create(context.Background(), validTransfer(from, to))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Zero(t, repo.createCalls)
}

func TestDelete_ConfirmedIsBlocked(t *testing.T) {
	from, to := id.New(), id.New()
	repo := newMockRepo()
	svc := newTestService(repo, from, to)

	tr := validTransfer(from, to)
	tr.Status = transfers.StatusConfirmed
	repo.transfers[tr.ID] = tr

	err := svc.Delete(context.Background(), tr.ID)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Zero(t, repo.deleteCalls)
}

func TestDelete_PendingSucceeds(t *testing.T) {
	from, to := id.New(), id.New()
	repo := newMockRepo()
	svc := newTestService(repo, from, to)

	tr := validTransfer(from, to)
	repo.transfers[tr.ID] = tr

	require.NoError(t, svc.Delete(context.Background(), tr.ID))
	assert.Equal(t, 1, repo.deleteCalls)
}

func TestListFlagged_SeparatesArchivedRows(t *testing.T) {
	from, to := id.New(), id.New()
	repo := newMockRepo()
	svc := newTestService(repo, from, to)

	visible := validTransfer(from, to)
	archived := validTransfer(from, to)
	archived.Flag = 1
	repo.transfers[visible.ID] = visible
	repo.transfers[archived.ID] = archived

	flagged, err := svc.ListFlagged(context.Background())
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, archived.ID, flagged[0].ID)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, visible.ID, listed[0].ID)
}
