package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"transita/internal/core/id"
)

type auditedRow struct {
	ID        id.ID      `db:"id" json:"id"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

type storeRow struct {
	auditedRow
	Name     string `db:"name" json:"name"`
	Code     string `db:"inditex_code" json:"inditexCode"`
	Resolved string `db:"-" json:"resolved"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[storeRow]()

	expected := []string{"id", "created_at", "updated_at", "deleted_at", "name", "inditex_code"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expected))
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	row := storeRow{
		auditedRow: auditedRow{
			ID:        id.New(),
			CreatedAt: now,
			UpdatedAt: now,
			DeletedAt: &now,
		},
		Name:     "Casablanca Maarif",
		Code:     "CM1001",
		Resolved: "ignored",
	}

	m := StructToMap(row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, &now, m["deleted_at"])
	assert.Equal(t, "Casablanca Maarif", m["name"])
	assert.Equal(t, "CM1001", m["inditex_code"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "resolved")
}
