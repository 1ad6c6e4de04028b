package transfers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transita/internal/core/id"
)

func makeTransfer(from, to *id.ID, status Status, quantity int, docNumber int64) Transfer {
	t := Transfer{
		ID:             id.New(),
		DocumentNumber: docNumber,
		FromStoreID:    from,
		ToStoreID:      to,
		Quantity:       quantity,
	}
	t.SetStatus(status)
	return t
}

func idPtr() *id.ID {
	v := id.New()
	return &v
}

func TestGroupDay_PartitionsEveryRecordExactlyOnce(t *testing.T) {
	storeA, storeB, storeC := idPtr(), idPtr(), idPtr()

	records := []Transfer{
		makeTransfer(storeA, storeB, StatusInProgress, 10, 100),
		makeTransfer(storeA, storeB, StatusConfirmed, 5, 101),
		makeTransfer(storeB, storeC, StatusPending, 7, 102),
		makeTransfer(storeA, storeC, StatusCancelled, 3, 103),
	}
	inv := makeTransfer(nil, storeC, StatusPending, 0, 104)
	inv.IsInventory = true
	records = append(records, inv)

	items := GroupDay(records)

	seen := make(map[id.ID]int)
	for _, item := range items {
		switch {
		case item.Inventory != nil:
			require.Nil(t, item.Group)
			seen[item.Inventory.ID]++
		case item.Group != nil:
			for _, m := range item.Group.Members {
				seen[m.ID]++
			}
		default:
			t.Fatal("day item with neither inventory nor group")
		}
	}

	assert.Len(t, seen, len(records))
	for _, rec := range records {
		assert.Equal(t, 1, seen[rec.ID])
	}
}

func TestGroupDay_SharedEndpointsFoldIntoOneGroup(t *testing.T) {
	storeA, storeB := idPtr(), idPtr()

	records := []Transfer{
		makeTransfer(storeA, storeB, StatusInProgress, 10, 100),
		makeTransfer(storeA, storeB, StatusConfirmed, 5, 101),
		makeTransfer(storeA, storeB, StatusConfirmed, 2, 101),
	}

	items := GroupDay(records)
	require.Len(t, items, 1)

	g := items[0].Group
	require.NotNil(t, g)
	assert.Len(t, g.Members, 3)
	assert.Equal(t, 17, g.TotalQuantity)
	assert.Equal(t, 1, g.StatusCounts[StatusInProgress])
	assert.Equal(t, 2, g.StatusCounts[StatusConfirmed])
	assert.Equal(t, []int64{100, 101}, g.DocumentNumbers)
}

func TestGroupDay_Deterministic(t *testing.T) {
	storeA, storeB, storeC := idPtr(), idPtr(), idPtr()

	records := []Transfer{
		makeTransfer(storeA, storeB, StatusConfirmed, 4, 200),
		makeTransfer(storeB, storeC, StatusInProgress, 6, 201),
		makeTransfer(storeA, storeB, StatusPending, 1, 202),
	}

	first := GroupDay(records)
	second := GroupDay(records)

	assert.Equal(t, first, second)
}

func TestGroupDay_RepresentativeColorPriority(t *testing.T) {
	storeA, storeB := idPtr(), idPtr()

	tests := []struct {
		name     string
		statuses []Status
		want     Color
	}{
		{"pending dominates everything", []Status{StatusConfirmed, StatusPending, StatusInProgress}, ColorOrange},
		{"cancelled dominates in-progress and confirmed", []Status{StatusConfirmed, StatusCancelled, StatusInProgress}, ColorRed},
		{"in-progress dominates confirmed", []Status{StatusConfirmed, StatusInProgress}, ColorBlue},
		{"all confirmed stays green", []Status{StatusConfirmed, StatusConfirmed}, ColorGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]Transfer, len(tt.statuses))
			for i, s := range tt.statuses {
				records[i] = makeTransfer(storeA, storeB, s, 1, int64(300+i))
			}

			items := GroupDay(records)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Group.Color)

			// The representative color must not depend on member order.
			reversed := make([]Transfer, len(records))
			for i := range records {
				reversed[i] = records[len(records)-1-i]
			}
			itemsRev := GroupDay(reversed)
			require.Len(t, itemsRev, 1)
			assert.Equal(t, tt.want, itemsRev[0].Group.Color)
		})
	}
}

func TestGroupDay_InventoryRecordsPassThroughFirst(t *testing.T) {
	storeA, storeB := idPtr(), idPtr()

	inv := makeTransfer(nil, storeB, StatusPending, 0, 400)
	inv.IsInventory = true

	records := []Transfer{
		makeTransfer(storeA, storeB, StatusConfirmed, 2, 401),
		inv,
	}

	items := GroupDay(records)
	require.Len(t, items, 2)
	assert.NotNil(t, items[0].Inventory)
	assert.Equal(t, inv.ID, items[0].Inventory.ID)
	assert.NotNil(t, items[1].Group)
}

func TestGroupDay_NilEndpointsGroupTogether(t *testing.T) {
	storeB := idPtr()

	records := []Transfer{
		makeTransfer(nil, storeB, StatusPending, 1, 500),
		makeTransfer(nil, storeB, StatusPending, 2, 501),
	}

	items := GroupDay(records)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Group.Members, 2)
	assert.Nil(t, items[0].Group.FromStoreID)
}
