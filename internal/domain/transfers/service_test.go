package transfers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
)

// --- Mocks ---

type mockRepo struct {
	transfers map[id.ID]*Transfer
	movements map[id.ID][]Movement

	bulkCalls   []GroupCriteria
	bulkResult  BulkResult
	bulkErr     error
	findResult  []Transfer
	listResult  []Transfer
	saveCalls   int
	createCalls int
	updateCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		transfers: make(map[id.ID]*Transfer),
		movements: make(map[id.ID][]Movement),
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
		return nil, apperror.NewNotFound("transfer", transferID.String())
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, t *Transfer) error {
	m.updateCalls++
	cp := *t
	m.transfers[t.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, transferID id.ID) (*Transfer, error) {
	t, ok := m.transfers[transferID]
	if !ok {
		return nil, apperror.NewNotFound("transfer", transferID.String())
	}
	delete(m.transfers, transferID)
	return t, nil
}

func (m *mockRepo) List(_ context.Context, _ ListFilter) ([]Transfer, error) {
	return m.listResult, nil
}

func (m *mockRepo) FindByCriteria(_ context.Context, _ GroupCriteria) ([]Transfer, error) {
	return m.findResult, nil
}

func (m *mockRepo) BulkUpdate(_ context.Context, criteria GroupCriteria, _ FieldUpdates) (BulkResult, error) {
	m.bulkCalls = append(m.bulkCalls, criteria)
	return m.bulkResult, m.bulkErr
}

func (m *mockRepo) SaveMovements(_ context.Context, transferID id.ID, movements []Movement) error {
	m.saveCalls++
	m.movements[transferID] = movements
	return nil
}

func (m *mockRepo) GetMovements(_ context.Context, transferID id.ID) ([]Movement, error) {
	return m.movements[transferID], nil
}

type mockStores struct {
	known   map[id.ID]bool
	active  []string
	lookups int
}

func (m *mockStores) Exists(_ context.Context, storeID id.ID) (bool, error) {
	m.lookups++
	return m.known[storeID], nil
}

func (m *mockStores) ActiveNames(_ context.Context) ([]string, error) {
	return m.active, nil
}

type mockAuditor struct {
	entries []string
}

func (m *mockAuditor) LogChange(_ context.Context, entityType string, _ id.ID, action string, _ map[string]any) error {
	m.entries = append(m.entries, entityType+":"+action)
	return nil
}

type mockBarcodes struct {
	results map[string]bool
	err     error
	got     []string
}

func (m *mockBarcodes) CheckBarcodes(_ context.Context, barcodes []string) (map[string]bool, error) {
	m.got = barcodes
	return m.results, m.err
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *mockRepo, stores *mockStores, barcodes *mockBarcodes, audit *mockAuditor) *Service {
	var a Auditor
	if audit != nil {
		a = audit
	}
	var b BarcodeValidator
	if barcodes != nil {
		b = barcodes
	}
	return NewService(repo, stores, b, a, passthroughTxManager{})
}

func knownStores(ids ...*id.ID) *mockStores {
	known := make(map[id.ID]bool)
	for _, v := range ids {
		known[*v] = true
	}
	return &mockStores{known: known}
}

// --- UpdateGroup ---

func TestUpdateGroup_SingleBulkStatement(t *testing.T) {
	from, to := idPtr(), idPtr()
	repo := newMockRepo()
	repo.bulkResult = BulkResult{MatchedCount: 3, ModifiedCount: 3}
	repo.findResult = []Transfer{
		makeTransfer(from, to, StatusConfirmed, 1, 100),
		makeTransfer(from, to, StatusConfirmed, 2, 101),
		makeTransfer(from, to, StatusConfirmed, 3, 102),
	}
	audit := &mockAuditor{}
	svc := newTestService(repo, knownStores(from, to), nil, audit)

	status := StatusConfirmed
	res, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{FromID: from, ToID: to, Date: time.Now()},
		FieldUpdates{Status: &status},
	)

	require.NoError(t, err)
	assert.Len(t, repo.bulkCalls, 1, "all matched records must be updated in one statement")
	assert.Equal(t, int64(3), res.MatchedCount)
	assert.Equal(t, int64(3), res.ModifiedCount)
	assert.Len(t, res.Updated, 3)
	assert.Equal(t, []string{"transfer:bulk_update"}, audit.entries)
}

func TestUpdateGroup_ZeroMatchesIsNotFound(t *testing.T) {
	from, to := idPtr(), idPtr()
	repo := newMockRepo()
	repo.bulkResult = BulkResult{}
	svc := newTestService(repo, knownStores(from, to), nil, nil)

	status := StatusCancelled
	_, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{FromID: from, ToID: to, Date: time.Now()},
		FieldUpdates{Status: &status},
	)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	assert.Len(t, repo.bulkCalls, 1)
}

func TestUpdateGroup_StorageErrorPropagates(t *testing.T) {
	from, to := idPtr(), idPtr()
	repo := newMockRepo()
	repo.bulkErr = errors.New("connection reset")
	svc := newTestService(repo, knownStores(from, to), nil, nil)

	status := StatusCancelled
	_, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{FromID: from, ToID: to, Date: time.Now()},
		FieldUpdates{Status: &status},
	)

	require.Error(t, err)
	_, ok := apperror.AsAppError(err)
	assert.False(t, ok, "storage errors must propagate unchanged")
}

func TestUpdateGroup_IncompleteCriteriaRejectedBeforeStorage(t *testing.T) {
	from := idPtr()
	repo := newMockRepo()
	svc := newTestService(repo, knownStores(from), nil, nil)

	status := StatusConfirmed
	_, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{FromID: from}, // no ToID, no date, no document numbers
		FieldUpdates{Status: &status},
	)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.bulkCalls, "validation failures must surface before any storage call")
}

func TestUpdateGroup_DocumentNumbersTakePrecedence(t *testing.T) {
	repo := newMockRepo()
	repo.bulkResult = BulkResult{MatchedCount: 2, ModifiedCount: 2}
	svc := newTestService(repo, &mockStores{}, nil, nil)

	status := StatusConfirmed
	_, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{DocumentNumbers: []int64{100, 101}},
		FieldUpdates{Status: &status},
	)

	require.NoError(t, err)
	require.Len(t, repo.bulkCalls, 1)
	assert.Equal(t, []int64{100, 101}, repo.bulkCalls[0].DocumentNumbers)
}

func TestUpdateGroup_UnknownStoreRejected(t *testing.T) {
	from, to := idPtr(), idPtr()
	repo := newMockRepo()
	svc := newTestService(repo, knownStores(from), nil, nil) // to unknown

	status := StatusConfirmed
	_, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{FromID: from, ToID: to, Date: time.Now()},
		FieldUpdates{Status: &status},
	)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.bulkCalls)
}

func TestUpdateGroup_InvalidStatusRejected(t *testing.T) {
	from, to := idPtr(), idPtr()
	repo := newMockRepo()
	svc := newTestService(repo, knownStores(from, to), nil, nil)

	status := StatusError
	_, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{FromID: from, ToID: to, Date: time.Now()},
		FieldUpdates{Status: &status},
	)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.bulkCalls)
}

func TestUpdateGroup_EmptyUpdatesRejected(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockStores{}, nil, nil)

	_, err := svc.UpdateGroup(context.Background(),
		GroupCriteria{DocumentNumbers: []int64{100}},
		FieldUpdates{},
	)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, repo.bulkCalls)
}

// --- Create / Update ---

func TestCreate_RecomputesTotalsAndSavesMovements(t *testing.T) {
	from, to := idPtr(), idPtr()
	repo := newMockRepo()
	svc := newTestService(repo, knownStores(from, to), nil, nil)

	tr := New(time.Now(), 4711)
	tr.FromStoreID = from
	tr.ToStoreID = to
	tr.Quantity = 999 // stale, must be recomputed
	tr.Movements = []Movement{{Units: 2}, {Units: 5}}

	require.NoError(t, svc.Create(context.Background(), tr))

	assert.Equal(t, 7, tr.Quantity)
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, 1, repo.saveCalls)
}

func TestCreate_UnknownDestinationRejected(t *testing.T) {
	from, to := idPtr(), idPtr()
	repo := newMockRepo()
	svc := newTestService(repo, knownStores(from), nil, nil)

	tr := New(time.Now(), 4711)
	tr.FromStoreID = from
	tr.ToStoreID = to

	err := svc.Create(context.Background(), tr)
	require.Error(t, err)
	assert.Zero(t, repo.createCalls)
}

// --- Barcodes ---

func TestSetMovementBarcode(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockStores{}, nil, nil)

	tr := New(time.Now(), 4711)
	lineID := id.New()
	repo.transfers[tr.ID] = tr
	repo.movements[tr.ID] = []Movement{
		{LineID: lineID, Units: 2},
		{LineID: id.New(), Units: 3, Barcode: "999", BarcodeValid: true},
	}

	updated, err := svc.SetMovementBarcode(context.Background(), tr.ID, lineID, "12345")
	require.NoError(t, err)

	require.Len(t, updated.Movements, 2)
	assert.Equal(t, "12345", updated.Movements[0].Barcode)
	assert.True(t, updated.Movements[0].BarcodeValid)
	assert.True(t, updated.AllBarcodesValid)
}

func TestSetMovementBarcode_UnknownLine(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockStores{}, nil, nil)

	tr := New(time.Now(), 4711)
	repo.transfers[tr.ID] = tr

	_, err := svc.SetMovementBarcode(context.Background(), tr.ID, id.New(), "12345")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestCheckBarcodes_PersistsPerLineResults(t *testing.T) {
	repo := newMockRepo()
	barcodes := &mockBarcodes{results: map[string]bool{"111": true, "222": false}}
	svc := newTestService(repo, &mockStores{}, barcodes, nil)

	tr := New(time.Now(), 4711)
	repo.transfers[tr.ID] = tr
	repo.movements[tr.ID] = []Movement{
		{LineID: id.New(), Units: 1, Barcode: "111"},
		{LineID: id.New(), Units: 1, Barcode: "222"},
		{LineID: id.New(), Units: 1}, // no barcode
	}

	updated, err := svc.CheckBarcodes(context.Background(), tr.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"111", "222"}, barcodes.got)
	assert.True(t, updated.Movements[0].BarcodeValid)
	assert.False(t, updated.Movements[1].BarcodeValid)
	assert.False(t, updated.Movements[2].BarcodeValid)
	assert.False(t, updated.AllBarcodesValid)
	assert.Equal(t, 1, repo.saveCalls, "results must be persisted")
}

func TestCheckBarcodes_UpstreamErrorPropagates(t *testing.T) {
	repo := newMockRepo()
	upstreamErr := apperror.NewUpstream("barcode-validator", errors.New("timeout"))
	barcodes := &mockBarcodes{err: upstreamErr}
	svc := newTestService(repo, &mockStores{}, barcodes, nil)

	tr := New(time.Now(), 4711)
	repo.transfers[tr.ID] = tr
	repo.movements[tr.ID] = []Movement{{LineID: id.New(), Units: 1, Barcode: "111"}}

	_, err := svc.CheckBarcodes(context.Background(), tr.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUpstream, appErr.Code)
	assert.Zero(t, repo.saveCalls)
}

// --- Calendar ---

func TestCalendar_GroupsPerDayInAscendingOrder(t *testing.T) {
	from, to := idPtr(), idPtr()

	day1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	rec1 := makeTransfer(from, to, StatusConfirmed, 2, 100)
	rec1.Date = day2
	rec2 := makeTransfer(from, to, StatusPending, 3, 101)
	rec2.Date = day1
	rec3 := makeTransfer(from, to, StatusPending, 1, 102)
	rec3.Date = day1

	repo := newMockRepo()
	repo.listResult = []Transfer{rec1, rec2, rec3}
	svc := newTestService(repo, &mockStores{}, nil, nil)

	days, err := svc.Calendar(context.Background(), day1, day2, FilterSpec{})
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, "2025-03-12", days[1].Date)
	require.Len(t, days[0].Items, 1)
	assert.Len(t, days[0].Items[0].Group.Members, 2)
}

func TestCalendar_InvertedPeriodRejected(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockStores{}, nil, nil)

	start := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Calendar(context.Background(), start, end, FilterSpec{})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCalendar_LoadsActiveNamesForStoreFilters(t *testing.T) {
	from, to := idPtr(), idPtr()
	rec := makeTransfer(from, to, StatusConfirmed, 2, 100)
	rec.Date = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rec.FromName = "Casablanca Maarif"

	repo := newMockRepo()
	repo.listResult = []Transfer{rec}
	stores := &mockStores{active: []string{"Casablanca Maarif"}}
	svc := newTestService(repo, stores, nil, nil)

	days, err := svc.Calendar(context.Background(), rec.Date, rec.Date, FilterSpec{
		FromStores: []StoreFilter{{ID: UnknownStoreID}},
		ApplyFrom:  true,
	})
	require.NoError(t, err)
	assert.Empty(t, days, "known store must not match the unknown sentinel")
}
