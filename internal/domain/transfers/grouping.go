package transfers

import (
	"transita/internal/core/id"
)

// Group is the in-memory aggregation of one day's transfers that share a
// (from, to) store pair. Groups are derived on every call and never persisted.
type Group struct {
	Key         string `json:"groupKey"`
	FromStoreID *string `json:"fromStoreId,omitempty"`
	ToStoreID   *string `json:"toStoreId,omitempty"`
	FromName    string `json:"fromName,omitempty"`
	ToName      string `json:"toName,omitempty"`

	Members         []Transfer     `json:"transfers"`
	StatusCounts    map[Status]int `json:"statusCounts"`
	TotalQuantity   int            `json:"totalQuantity"`
	DocumentNumbers []int64        `json:"documentNumbers"`

	// Color is the representative color of the group: the member color
	// with the lowest priority number wins.
	Color Color `json:"color"`
}

// DayItem is one rendered entry of a calendar day: either a single
// ungrouped inventory record or a transfer group. Exactly one field is set.
type DayItem struct {
	Inventory *Transfer `json:"inventory,omitempty"`
	Group     *Group    `json:"group,omitempty"`
}

// colorPriority orders representative colors. Lower wins, so a pending
// (orange) member dominates a cancelled (red) one, which dominates
// in-progress (blue) and confirmed (green).
var colorPriority = map[Color]int{
	ColorOrange: 1,
	ColorRed:    2,
	ColorBlue:   3,
	ColorGreen:  4,
}

// GroupDay groups one day's records by (from, to) store pair.
//
// Inventory records are passed through ungrouped and come first, in input
// order. The remaining records fold into groups in first-seen key order,
// accumulating status counts, total quantity and deduplicated document
// numbers. Singleton groups are not special-cased here; collapsing a
// one-member group to a plain transfer view is a presentation decision.
func GroupDay(records []Transfer) []DayItem {
	items := make([]DayItem, 0, len(records))

	groups := make(map[string]*Group)
	var order []string

	for i := range records {
		rec := records[i]
		if rec.IsInventory {
			items = append(items, DayItem{Inventory: &records[i]})
			continue
		}

		key := groupKey(rec)
		g, ok := groups[key]
		if !ok {
			g = &Group{
				Key:         key,
				FromStoreID: storeIDString(rec.FromStoreID),
				ToStoreID:   storeIDString(rec.ToStoreID),
				FromName:    rec.FromName,
				ToName:      rec.ToName,
				StatusCounts: map[Status]int{
					StatusInProgress: 0,
					StatusConfirmed:  0,
					StatusPending:    0,
					StatusCancelled:  0,
				},
				Color: rec.Color,
			}
			groups[key] = g
			order = append(order, key)
		}

		g.Members = append(g.Members, rec)
		g.StatusCounts[rec.Status]++
		g.TotalQuantity += rec.Quantity

		if rec.DocumentNumber != 0 && !containsNumber(g.DocumentNumbers, rec.DocumentNumber) {
			g.DocumentNumbers = append(g.DocumentNumbers, rec.DocumentNumber)
		}

		if colorPriority[rec.Color] < colorPriority[g.Color] {
			g.Color = rec.Color
		}
	}

	for _, key := range order {
		items = append(items, DayItem{Group: groups[key]})
	}
	return items
}

func groupKey(t Transfer) string {
	var from, to string
	if t.FromStoreID != nil {
		from = t.FromStoreID.String()
	}
	if t.ToStoreID != nil {
		to = t.ToStoreID.String()
	}
	return from + "|" + to
}

func storeIDString(sid *id.ID) *string {
	if sid == nil {
		return nil
	}
	s := sid.String()
	return &s
}

func containsNumber(nums []int64, n int64) bool {
	for _, v := range nums {
		if v == n {
			return true
		}
	}
	return false
}
