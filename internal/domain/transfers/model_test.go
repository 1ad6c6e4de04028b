package transfers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transita/internal/core/apperror"
)

func TestColorForStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   Color
	}{
		{StatusInProgress, ColorBlue},
		{StatusConfirmed, ColorGreen},
		{StatusPending, ColorOrange},
		{StatusCancelled, ColorRed},
		{StatusError, ColorOrange},
		{Status("n'importe quoi"), ColorOrange},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ColorForStatus(tt.status), "status %q", tt.status)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusInProgress, StatusConfirmed, StatusPending, StatusCancelled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus(StatusError))
	assert.False(t, ValidStatus(Status("")))
}

func TestSetStatusKeepsColorInSync(t *testing.T) {
	tr := New(time.Now(), 42)
	tr.SetStatus(StatusConfirmed)
	assert.Equal(t, ColorGreen, tr.Color)
	tr.SetStatus(StatusCancelled)
	assert.Equal(t, ColorRed, tr.Color)
}

func TestRecalculateTotals(t *testing.T) {
	tr := New(time.Now(), 42)
	tr.Movements = []Movement{
		{Units: 3, Barcode: "123", BarcodeValid: true},
		{Units: 4, Barcode: "456", BarcodeValid: true},
	}
	tr.RecalculateTotals()
	assert.Equal(t, 7, tr.Quantity)
	assert.True(t, tr.AllBarcodesValid)

	tr.Movements = append(tr.Movements, Movement{Units: 1})
	tr.RecalculateTotals()
	assert.Equal(t, 8, tr.Quantity)
	assert.False(t, tr.AllBarcodesValid)

	tr.Movements = nil
	tr.RecalculateTotals()
	assert.Equal(t, 0, tr.Quantity)
	assert.False(t, tr.AllBarcodesValid)
}

func TestTransferValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		tr := New(time.Now(), 42)
		assert.NoError(t, tr.Validate(ctx))
	})

	t.Run("missing date", func(t *testing.T) {
		tr := New(time.Time{}, 42)
		err := tr.Validate(ctx)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("missing document number", func(t *testing.T) {
		tr := New(time.Now(), 0)
		assert.Error(t, tr.Validate(ctx))
	})

	t.Run("same endpoint rejected", func(t *testing.T) {
		tr := New(time.Now(), 42)
		store := idPtr()
		tr.FromStoreID = store
		tr.ToStoreID = store
		assert.Error(t, tr.Validate(ctx))
	})

	t.Run("same endpoint allowed for inventory rows", func(t *testing.T) {
		tr := New(time.Now(), 42)
		store := idPtr()
		tr.FromStoreID = store
		tr.ToStoreID = store
		tr.IsInventory = true
		assert.NoError(t, tr.Validate(ctx))
	})
}

func TestDayKey(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	late := time.Date(2025, 3, 10, 0, 30, 0, 0, paris) // 23:30 UTC the day before

	assert.Equal(t, "2025-03-09", DayKey(late))
	assert.Equal(t, "2025-03-10", DayKey(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(time.Date(2025, 3, 10, 15, 42, 7, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)
	assert.Equal(t, start.Format("2006-01-02"), end.Format("2006-01-02"))
}
