package transfers

import (
	"strings"
)

// Mode selects between inventory rows, transfer rows, or both.
type Mode string

const (
	ModeAll           Mode = "all"
	ModeInventoryOnly Mode = "inventory"
	ModeTransfersOnly Mode = "transfers"
)

// LegendManual is the legend tag for hand-entered transfers. The other
// legend tags are the presentation colors.
const LegendManual = "manual"

// UnknownStoreID is the sentinel selectable in store filters to match
// records whose endpoint resolves to no active store.
const UnknownStoreID = "unknown"

// StoreFilter is one selected entry of a store multi-select: either an
// active store by name or the unknown-store sentinel.
type StoreFilter struct {
	ID   string
	Name string
}

// IsUnknown reports whether this entry is the unknown-store sentinel.
func (f StoreFilter) IsUnknown() bool {
	return f.ID == UnknownStoreID
}

// FilterSpec holds the per-day filters applied before grouping.
// The zero value filters nothing.
type FilterSpec struct {
	// LegendTypes are the selected legend tags (colors and/or "manual").
	// Empty means no legend filter.
	LegendTypes []string

	// Mode restricts to inventory rows or transfer rows. Empty or ModeAll
	// keeps both.
	Mode Mode

	// FromStores / ToStores are the selected endpoints per direction.
	// Each list only applies when its direction toggle is set.
	FromStores []StoreFilter
	ToStores   []StoreFilter
	ApplyFrom  bool
	ApplyTo    bool

	// ActiveStoreNames is the directory of active store names, used to
	// resolve the unknown-store sentinel.
	ActiveStoreNames []string
}

// FilterDay applies the filter rules as a conjunction over one day's
// records. Inactive rule groups always pass; an empty spec is the identity.
// Pure function: the input slice is never mutated.
func FilterDay(records []Transfer, spec FilterSpec) []Transfer {
	out := make([]Transfer, 0, len(records))
	for _, rec := range records {
		if matchRecord(rec, spec) {
			out = append(out, rec)
		}
	}
	return out
}

func matchRecord(rec Transfer, spec FilterSpec) bool {
	if len(spec.LegendTypes) > 0 && !matchLegend(rec, spec.LegendTypes) {
		return false
	}

	if spec.Mode == ModeInventoryOnly && !rec.IsInventory {
		return false
	}
	if spec.Mode == ModeTransfersOnly && rec.IsInventory {
		return false
	}

	fromMatch := true
	toMatch := true

	if len(spec.FromStores) > 0 && spec.ApplyFrom {
		fromMatch = matchEndpoint(rec.FromName, spec.FromStores, spec.ActiveStoreNames)
	}
	if len(spec.ToStores) > 0 && spec.ApplyTo {
		toMatch = matchEndpoint(rec.ToName, spec.ToStores, spec.ActiveStoreNames)
	}

	if spec.ApplyFrom && !fromMatch {
		return false
	}
	if spec.ApplyTo && !toMatch {
		return false
	}
	return true
}

// matchLegend checks the record against the selected legend tags. When the
// manual tag is selected the record must be a manual transfer, and if color
// tags are selected alongside it, its color must be among them. Without the
// manual tag the record's color must simply be selected.
func matchLegend(rec Transfer, legendTypes []string) bool {
	manual := false
	var colors []string
	for _, l := range legendTypes {
		if l == LegendManual {
			manual = true
		} else {
			colors = append(colors, l)
		}
	}

	if manual {
		if !rec.IsManual {
			return false
		}
		if len(colors) > 0 && !containsString(colors, string(rec.Color)) {
			return false
		}
		return true
	}
	return containsString(legendTypes, string(rec.Color))
}

// matchEndpoint checks one direction of the store filter. The unknown
// sentinel matches records whose name is missing or belongs to no active
// store; concrete selections match by name containment.
func matchEndpoint(name string, selected []StoreFilter, activeNames []string) bool {
	for _, sf := range selected {
		if sf.IsUnknown() {
			return name == "" || name == "Inconnu" || !containsString(activeNames, name)
		}
	}
	for _, sf := range selected {
		if name != "" && strings.Contains(name, sf.Name) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
