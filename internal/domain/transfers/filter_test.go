package transfers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedTransfer(fromName, toName string, status Status) Transfer {
	t := makeTransfer(idPtr(), idPtr(), status, 1, 1)
	t.FromName = fromName
	t.ToName = toName
	return t
}

func TestFilterDay_EmptySpecIsIdentity(t *testing.T) {
	records := []Transfer{
		namedTransfer("Casablanca Maarif", "Rabat Agdal", StatusConfirmed),
		namedTransfer("Rabat Agdal", "Tanger City Mall", StatusPending),
	}

	out := FilterDay(records, FilterSpec{})

	assert.Equal(t, records, out)
}

func TestFilterDay_DoesNotMutateInput(t *testing.T) {
	records := []Transfer{
		namedTransfer("Casablanca Maarif", "Rabat Agdal", StatusConfirmed),
		namedTransfer("Rabat Agdal", "Tanger City Mall", StatusPending),
	}
	original := make([]Transfer, len(records))
	copy(original, records)

	_ = FilterDay(records, FilterSpec{LegendTypes: []string{"green"}})

	assert.Equal(t, original, records)
}

func TestFilterDay_LegendColors(t *testing.T) {
	records := []Transfer{
		namedTransfer("A", "B", StatusConfirmed),  // green
		namedTransfer("A", "B", StatusPending),    // orange
		namedTransfer("A", "B", StatusInProgress), // blue
	}

	out := FilterDay(records, FilterSpec{LegendTypes: []string{"green", "blue"}})

	require.Len(t, out, 2)
	assert.Equal(t, ColorGreen, out[0].Color)
	assert.Equal(t, ColorBlue, out[1].Color)
}

func TestFilterDay_LegendManual(t *testing.T) {
	manualRec := namedTransfer("A", "B", StatusConfirmed)
	manualRec.IsManual = true
	feedRec := namedTransfer("A", "B", StatusConfirmed)

	records := []Transfer{manualRec, feedRec}

	out := FilterDay(records, FilterSpec{LegendTypes: []string{LegendManual}})
	require.Len(t, out, 1)
	assert.True(t, out[0].IsManual)

	// Manual tag combined with a color requires both.
	out = FilterDay(records, FilterSpec{LegendTypes: []string{LegendManual, "orange"}})
	assert.Empty(t, out)

	out = FilterDay(records, FilterSpec{LegendTypes: []string{LegendManual, "green"}})
	assert.Len(t, out, 1)
}

func TestFilterDay_Mode(t *testing.T) {
	inv := namedTransfer("", "B", StatusPending)
	inv.IsInventory = true
	records := []Transfer{inv, namedTransfer("A", "B", StatusConfirmed)}

	out := FilterDay(records, FilterSpec{Mode: ModeInventoryOnly})
	require.Len(t, out, 1)
	assert.True(t, out[0].IsInventory)

	out = FilterDay(records, FilterSpec{Mode: ModeTransfersOnly})
	require.Len(t, out, 1)
	assert.False(t, out[0].IsInventory)

	out = FilterDay(records, FilterSpec{Mode: ModeAll})
	assert.Len(t, out, 2)
}

func TestFilterDay_StoreSelection(t *testing.T) {
	active := []string{"Casablanca Maarif", "Rabat Agdal", "Tanger City Mall"}

	records := []Transfer{
		namedTransfer("Casablanca Maarif", "Rabat Agdal", StatusConfirmed),
		namedTransfer("Rabat Agdal", "Casablanca Maarif", StatusConfirmed),
	}

	spec := FilterSpec{
		FromStores:       []StoreFilter{{Name: "Casablanca Maarif"}},
		ApplyFrom:        true,
		ActiveStoreNames: active,
	}

	out := FilterDay(records, spec)
	require.Len(t, out, 1)
	assert.Equal(t, "Casablanca Maarif", out[0].FromName)
}

func TestFilterDay_SelectionOnlyAppliesWhenToggled(t *testing.T) {
	records := []Transfer{
		namedTransfer("Casablanca Maarif", "Rabat Agdal", StatusConfirmed),
		namedTransfer("Rabat Agdal", "Casablanca Maarif", StatusConfirmed),
	}

	spec := FilterSpec{
		FromStores: []StoreFilter{{Name: "Casablanca Maarif"}},
		ApplyFrom:  false,
	}

	out := FilterDay(records, spec)
	assert.Len(t, out, 2)
}

func TestFilterDay_UnknownStoreSentinel(t *testing.T) {
	active := []string{"Casablanca Maarif", "Rabat Agdal"}

	unknownName := namedTransfer("Depot Fantome", "Rabat Agdal", StatusConfirmed)
	emptyName := namedTransfer("", "Rabat Agdal", StatusPending)
	knownName := namedTransfer("Casablanca Maarif", "Rabat Agdal", StatusConfirmed)

	spec := FilterSpec{
		FromStores:       []StoreFilter{{ID: UnknownStoreID}},
		ApplyFrom:        true,
		ActiveStoreNames: active,
	}

	out := FilterDay([]Transfer{unknownName, emptyName, knownName}, spec)

	require.Len(t, out, 2)
	assert.Equal(t, "Depot Fantome", out[0].FromName)
	assert.Equal(t, "", out[1].FromName)
}

func TestFilterDay_RuleGroupsAreConjunctive(t *testing.T) {
	active := []string{"Casablanca Maarif", "Rabat Agdal"}

	match := namedTransfer("Casablanca Maarif", "Rabat Agdal", StatusConfirmed)
	wrongColor := namedTransfer("Casablanca Maarif", "Rabat Agdal", StatusPending)
	wrongStore := namedTransfer("Rabat Agdal", "Casablanca Maarif", StatusConfirmed)

	spec := FilterSpec{
		LegendTypes:      []string{"green"},
		FromStores:       []StoreFilter{{Name: "Casablanca Maarif"}},
		ApplyFrom:        true,
		ActiveStoreNames: active,
	}

	out := FilterDay([]Transfer{match, wrongColor, wrongStore}, spec)

	require.Len(t, out, 1)
	assert.Equal(t, match.ID, out[0].ID)
}
