// Package reports provides aggregate statistics over transfers.
package reports

import (
	"time"

	"transita/internal/core/id"
	"transita/internal/core/types"
	"transita/internal/domain/transfers"
)

// TransferStatsFilter defines the reporting period.
type TransferStatsFilter struct {
	FromDate time.Time
	ToDate   time.Time

	// StoreIDs narrows the report to transfers touching these stores.
	StoreIDs []id.ID
}

// StoreTotal is one row of the per-store breakdown. A transfer counts
// toward both its source and destination store.
type StoreTotal struct {
	StoreID       id.ID       `json:"storeId"`
	StoreName     string      `json:"storeName"`
	Incoming      int         `json:"incoming"`
	Outgoing      int         `json:"outgoing"`
	TotalQuantity int         `json:"totalQuantity"`
	TotalValue    types.Money `json:"totalValue"`
}

// TransferStats is the full statistics report for a period.
type TransferStats struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	StatusCounts  map[transfers.Status]int `json:"statusCounts"`
	StoreTotals   []StoreTotal             `json:"storeTotals"`
	TotalCount    int                      `json:"totalCount"`
	TotalQuantity int                      `json:"totalQuantity"`
	TotalValue    types.Money              `json:"totalValue"`
}
