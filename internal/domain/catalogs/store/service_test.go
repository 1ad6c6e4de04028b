package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
)

type mockRepo struct {
	stores      map[id.ID]*Store
	codeTaken   bool
	createCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{stores: make(map[id.ID]*Store)}
}

func (m *mockRepo) Create(_ context.Context, s *Store) error {
	m.createCalls++
	cp := *s
	m.stores[s.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, storeID id.ID) (*Store, error) {
	s, ok := m.stores[storeID]
	if !ok {
		return nil, apperror.NewNotFound("store", storeID.String())
	}
	return s, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (*Store, error) {
	for _, s := range m.stores {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("store", name)
}

func (m *mockRepo) Update(_ context.Context, s *Store) error {
	cp := *s
	m.stores[s.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, storeID id.ID) error {
	delete(m.stores, storeID)
	return nil
}

func (m *mockRepo) List(_ context.Context, _ ListFilter) ([]Store, error) {
	out := make([]Store, 0, len(m.stores))
	for _, s := range m.stores {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockRepo) Exists(_ context.Context, storeID id.ID) (bool, error) {
	_, ok := m.stores[storeID]
	return ok, nil
}

func (m *mockRepo) ExistsByCode(_ context.Context, _ string, _ *id.ID) (bool, error) {
	return m.codeTaken, nil
}

func (m *mockRepo) ActiveNames(_ context.Context) ([]string, error) {
	var names []string
	for _, s := range m.stores {
		if s.IsActive() {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

func TestNew_NormalizesCodes(t *testing.T) {
	s := New("  Casablanca Maarif ", " ma1034 ", "fut-22 ")

	assert.Equal(t, "Casablanca Maarif", s.Name)
	assert.Equal(t, "MA1034", s.InditexCode)
	assert.Equal(t, "FUT-22", s.FuturaCode)
	assert.Equal(t, StatusActive, s.Status)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Store)
		wantErr bool
	}{
		{"valid", func(*Store) {}, false},
		{"empty name", func(s *Store) { s.Name = "  " }, true},
		{"empty inditex code", func(s *Store) { s.InditexCode = "" }, true},
		{"bad status", func(s *Store) { s.Status = "closed" }, true},
		{"inactive ok", func(s *Store) { s.Status = StatusInactive }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("Rabat Agdal", "MA2001", "FUT-7")
			tt.mutate(s)
			err := s.Validate(context.Background())
			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreate_DuplicateCodeRejected(t *testing.T) {
	repo := newMockRepo()
	repo.codeTaken = true
	svc := NewService(repo)

	err := svc.Create(context.Background(), New("Rabat Agdal", "MA2001", "FUT-7"))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Zero(t, repo.createCalls)
}

func TestCreate_NormalizesBeforePersisting(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	s := New("Rabat Agdal", "MA2001", "FUT-7")
	s.InditexCode = " ma2001"
	require.NoError(t, svc.Create(context.Background(), s))

	assert.Equal(t, "MA2001", repo.stores[s.ID].InditexCode)
}

func TestActiveNames_ExcludesInactive(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	active := New("Rabat Agdal", "MA2001", "FUT-7")
	inactive := New("Fes Saiss", "MA2002", "FUT-8")
	inactive.Status = StatusInactive
	repo.stores[active.ID] = active
	repo.stores[inactive.ID] = inactive

	names, err := svc.ActiveNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Rabat Agdal"}, names)
}
