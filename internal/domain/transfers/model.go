// Package transfers provides the transfer document: a movement of stock
// between two stores on a given calendar day, imported from the movement
// feed or entered by hand.
package transfers

import (
	"context"
	"time"

	"transita/internal/core/apperror"
	"transita/internal/core/id"
	"transita/internal/core/types"
)

// Status is the lifecycle state of a transfer.
// The French labels come from the movement feed and are stored verbatim.
type Status string

const (
	StatusInProgress Status = "En cours"
	StatusConfirmed  Status = "Confirmé"
	StatusPending    Status = "En attente"
	StatusCancelled  Status = "Annulé"

	// StatusError marks broken feed rows. They are excluded from every
	// listing and from bulk updates.
	StatusError Status = "Erreur"
)

// Color is the presentation color derived from status.
// Yellow is reserved for inventory rows, black for manual transfers in the UI legend.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
)

// Flag values for soft-hiding records.
const (
	FlagVisible  = 0
	FlagArchived = 1 // integrated/archived, excluded from standard listings
)

// ColorForStatus maps a status to its presentation color.
func ColorForStatus(s Status) Color {
	switch s {
	case StatusInProgress:
		return ColorBlue
	case StatusConfirmed:
		return ColorGreen
	case StatusPending:
		return ColorOrange
	case StatusCancelled:
		return ColorRed
	}
	return ColorOrange
}

// ValidStatus reports whether s is one of the editable statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusInProgress, StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Movement is a single line item of a transfer as delivered by the feed.
type Movement struct {
	LineID       id.ID       `db:"line_id" json:"lineId"`
	TransferID   id.ID       `db:"transfer_id" json:"-"`
	LineNo       int         `db:"line_no" json:"lineNo"`
	Model        int         `db:"model" json:"model"`
	Quality      int         `db:"quality" json:"quality"`
	Colour       int         `db:"colour" json:"colour"`
	Size         int         `db:"size" json:"size"`
	Units        int         `db:"units" json:"units"`
	Price        types.Money `db:"price" json:"price"`
	Year         int         `db:"year" json:"year"`
	Campaign     int         `db:"campaign" json:"campaign"`
	Period       int         `db:"period" json:"period"`
	Information  string      `db:"information" json:"information,omitempty"`
	Box          string      `db:"box" json:"box,omitempty"`
	Barcode      string      `db:"barcode" json:"barcode,omitempty"`
	BarcodeValid bool        `db:"barcode_valid" json:"barcodeValid"`
}

// Transfer represents a stock movement document between two stores.
type Transfer struct {
	ID             id.ID     `db:"id" json:"id"`
	Date           time.Time `db:"date" json:"date"`
	DocumentNumber int64     `db:"document_number" json:"documentNumber"`

	// Store references are nullable: feed rows may point at stores the
	// directory does not know.
	FromStoreID *id.ID `db:"from_store_id" json:"fromStoreId,omitempty"`
	ToStoreID   *id.ID `db:"to_store_id" json:"toStoreId,omitempty"`

	// Resolved display names, joined in by the repository. Empty when the
	// reference is missing or unresolved.
	FromName string `db:"from_name" json:"fromName,omitempty"`
	ToName   string `db:"to_name" json:"toName,omitempty"`

	Status Status `db:"status" json:"status"`
	Color  Color  `db:"color" json:"color"`

	// Quantity is the sum of movement units, maintained on every write.
	Quantity int `db:"quantity" json:"quantity"`

	Description      string `db:"description" json:"description,omitempty"`
	Flag             int    `db:"flag" json:"flag"`
	AllBarcodesValid bool   `db:"all_barcodes_valid" json:"allBarcodesValid"`
	IsInventory      bool   `db:"is_inventory" json:"isInventory"`
	IsManual         bool   `db:"is_manual" json:"isManual"`

	CreatedBy *id.ID    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Movements []Movement `db:"-" json:"movements,omitempty"`
}

// New creates a transfer with defaults matching the feed importer.
func New(date time.Time, documentNumber int64) *Transfer {
	now := time.Now().UTC()
	return &Transfer{
		ID:             id.New(),
		Date:           date,
		DocumentNumber: documentNumber,
		Status:         StatusPending,
		Color:          ColorOrange,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SetStatus updates the status and its derived color together.
func (t *Transfer) SetStatus(s Status) {
	t.Status = s
	t.Color = ColorForStatus(s)
}

// RecalculateTotals recomputes quantity and the all-barcodes-valid flag
// from the movement lines. Call after any movement mutation.
func (t *Transfer) RecalculateTotals() {
	t.Quantity = 0
	allValid := len(t.Movements) > 0
	for _, m := range t.Movements {
		t.Quantity += m.Units
		if !m.BarcodeValid || m.Barcode == "" {
			allValid = false
		}
	}
	t.AllBarcodesValid = allValid
}

// Validate checks transfer invariants before persisting.
func (t *Transfer) Validate(ctx context.Context) error {
	if t.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if t.DocumentNumber == 0 {
		return apperror.NewValidation("document number is required").
			WithDetail("field", "documentNumber")
	}
	if !ValidStatus(t.Status) && t.Status != StatusError {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(t.Status))
	}
	// A store cannot transfer to itself. Inventory rows only carry a
	// destination, so the check does not apply to them.
	if !t.IsInventory && t.FromStoreID != nil && t.ToStoreID != nil && *t.FromStoreID == *t.ToStoreID {
		return apperror.NewValidation("source and destination stores must differ").
			WithDetail("field", "toStoreId")
	}
	return nil
}

// DayKey formats a date as the YYYY-MM-DD calendar key used by listings.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayBounds returns the inclusive UTC day boundaries for t,
// [00:00:00.000, 23:59:59.999].
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}
