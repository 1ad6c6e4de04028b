// Package manual provides operator-created transfers. Unlike imported
// transfers these are keyed by scanned or typed barcodes rather than
// movement lines from the feed.
package manual

import (
	"context"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/domain/transfers"
)

// ImportMethod records how the items were captured.
type ImportMethod string

const (
	MethodManual ImportMethod = "manual"
	MethodFile   ImportMethod = "file"
	MethodScan   ImportMethod = "scan"
)

// Item is one barcode line of a manual transfer.
type Item struct {
	ID         id.ID  `db:"id" json:"id"`
	TransferID id.ID  `db:"transfer_id" json:"-"`
	Barcode    string `db:"barcode" json:"barcode"`
	Quantity   int    `db:"quantity" json:"quantity"`
}

// Transfer is a manually captured store-to-store transfer.
type Transfer struct {
	ID            id.ID            `db:"id" json:"id"`
	FromStoreID   id.ID            `db:"from_store_id" json:"fromStoreId"`
	ToStoreID     id.ID            `db:"to_store_id" json:"toStoreId"`
	FromName      string           `db:"from_name" json:"fromName,omitempty"`
	ToName        string           `db:"to_name" json:"toName,omitempty"`
	TransferDate  time.Time        `db:"transfer_date" json:"transferDate"`
	Status        transfers.Status `db:"status" json:"status"`
	TotalQuantity int              `db:"total_quantity" json:"totalQuantity"`
	Flag          int              `db:"flag" json:"flag"`
	ImportMethod  ImportMethod     `db:"import_method" json:"importMethod"`
	CreatedBy     *id.ID           `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updatedAt"`

	Items []Item `db:"-" json:"items,omitempty"`
}

// New creates a pending manual transfer.
func New(fromStoreID, toStoreID id.ID, date time.Time) *Transfer {
	now := time.Now().UTC()
	return &Transfer{
		ID:           id.New(),
		FromStoreID:  fromStoreID,
		ToStoreID:    toStoreID,
		TransferDate: date.UTC(),
		Status:       transfers.StatusPending,
		ImportMethod: MethodManual,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RecalculateTotal recomputes total quantity from items.
func (t *Transfer) RecalculateTotal() {
	total := 0
	for _, it := range t.Items {
		total += it.Quantity
	}
	t.TotalQuantity = total
}

// Validate checks endpoints, items and status.
func (t *Transfer) Validate(ctx context.Context) error {
	if id.IsNil(t.FromStoreID) {
		return apperror.NewValidation("source store is required").WithDetail("field", "fromStoreId")
	}
	if id.IsNil(t.ToStoreID) {
		return apperror.NewValidation("destination store is required").WithDetail("field", "toStoreId")
	}
	if t.FromStoreID == t.ToStoreID {
		return apperror.NewValidation("source and destination must differ")
	}
	if t.TransferDate.IsZero() {
		return apperror.NewValidation("transfer date is required").WithDetail("field", "transferDate")
	}
	if !transfers.ValidStatus(t.Status) {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(t.Status))
	}
	switch t.ImportMethod {
	case MethodManual, MethodFile, MethodScan:
	default:
		return apperror.NewValidation("invalid import method").
			WithDetail("field", "importMethod").
			WithDetail("value", string(t.ImportMethod))
	}
	if len(t.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, it := range t.Items {
		if it.Barcode == "" {
			return apperror.NewValidation("item barcode is required").
				WithDetail("field", "items").
				WithDetail("index", i)
		}
		if it.Quantity < 1 {
			return apperror.NewValidation("item quantity must be at least 1").
				WithDetail("field", "items").
				WithDetail("index", i)
		}
	}
	return nil
}

// Stats is the aggregate returned by the stats endpoint.
type Stats struct {
	StatusCounts  map[transfers.Status]int `json:"statusCounts"`
	TotalQuantity int                      `json:"totalQuantity"`
	Count         int                      `json:"count"`
}
