package dto

import (
	"time"

	"transita/internal/core/types"
	"transita/internal/domain/transfers"
)

// --- Request DTOs ---

// MovementPayload is one movement line of a transfer request.
type MovementPayload struct {
	Model       int         `json:"model"`
	Quality     int         `json:"quality"`
	Colour      int         `json:"colour"`
	Size        int         `json:"size"`
	Units       int         `json:"units" binding:"required,min=1"`
	Price       types.Money `json:"price"`
	Year        int         `json:"year"`
	Campaign    int         `json:"campaign"`
	Period      int         `json:"period"`
	Information string      `json:"information,omitempty"`
	Box         string      `json:"box,omitempty"`
	Barcode     string      `json:"barcode,omitempty"`
}

func (p *MovementPayload) toMovement() transfers.Movement {
	return transfers.Movement{
		Model:       p.Model,
		Quality:     p.Quality,
		Colour:      p.Colour,
		Size:        p.Size,
		Units:       p.Units,
		Price:       p.Price,
		Year:        p.Year,
		Campaign:    p.Campaign,
		Period:      p.Period,
		Information: p.Information,
		Box:         p.Box,
		Barcode:     p.Barcode,
	}
}

// CreateTransferRequest is the request body for creating a transfer.
type CreateTransferRequest struct {
	Date           time.Time         `json:"date" binding:"required"`
	DocumentNumber int64             `json:"documentNumber" binding:"required"`
	FromStoreID    *string           `json:"fromStoreId,omitempty"`
	ToStoreID      *string           `json:"toStoreId,omitempty"`
	Status         string            `json:"status,omitempty"`
	Description    string            `json:"description,omitempty"`
	IsInventory    bool              `json:"isInventory,omitempty"`
	Movements      []MovementPayload `json:"movements,omitempty"`
}

// ToEntity converts the request to a domain transfer.
func (r *CreateTransferRequest) ToEntity() (*transfers.Transfer, error) {
	t := transfers.New(r.Date, r.DocumentNumber)

	var err error
	if t.FromStoreID, err = ParseOptionalID(r.FromStoreID, "fromStoreId"); err != nil {
		return nil, err
	}
	if t.ToStoreID, err = ParseOptionalID(r.ToStoreID, "toStoreId"); err != nil {
		return nil, err
	}

	if r.Status != "" {
		t.SetStatus(transfers.Status(r.Status))
	}
	t.Description = r.Description
	t.IsInventory = r.IsInventory

	t.Movements = make([]transfers.Movement, len(r.Movements))
	for i, p := range r.Movements {
		t.Movements[i] = p.toMovement()
	}
	t.RecalculateTotals()
	return t, nil
}

// UpdateTransferRequest is the request body for updating a transfer.
// Movements, when present, replace the existing lines.
type UpdateTransferRequest struct {
	Date           time.Time          `json:"date" binding:"required"`
	DocumentNumber int64              `json:"documentNumber" binding:"required"`
	FromStoreID    *string            `json:"fromStoreId,omitempty"`
	ToStoreID      *string            `json:"toStoreId,omitempty"`
	Status         string             `json:"status" binding:"required"`
	Description    string             `json:"description,omitempty"`
	Flag           *int               `json:"flag,omitempty" binding:"omitempty,oneof=0 1"`
	Movements      *[]MovementPayload `json:"movements,omitempty"`
}

// ApplyTo applies the update to an existing transfer. Returns whether the
// movement lines were replaced.
func (r *UpdateTransferRequest) ApplyTo(t *transfers.Transfer) (bool, error) {
	t.Date = r.Date
	t.DocumentNumber = r.DocumentNumber

	var err error
	if t.FromStoreID, err = ParseOptionalID(r.FromStoreID, "fromStoreId"); err != nil {
		return false, err
	}
	if t.ToStoreID, err = ParseOptionalID(r.ToStoreID, "toStoreId"); err != nil {
		return false, err
	}

	t.SetStatus(transfers.Status(r.Status))
	t.Description = r.Description
	if r.Flag != nil {
		t.Flag = *r.Flag
	}

	if r.Movements == nil {
		return false, nil
	}
	t.Movements = make([]transfers.Movement, len(*r.Movements))
	for i, p := range *r.Movements {
		t.Movements[i] = p.toMovement()
	}
	t.RecalculateTotals()
	return true, nil
}

// TransferListQuery binds transfer list filters.
type TransferListQuery struct {
	Status  string `form:"status"`
	StoreID string `form:"storeId" binding:"omitempty,uuid"`
}

// ToFilter converts to the domain filter.
func (q *TransferListQuery) ToFilter() (transfers.ListFilter, error) {
	f := transfers.ListFilter{Status: transfers.Status(q.Status)}
	if q.StoreID != "" {
		storeID, err := ParseID(q.StoreID, "storeId")
		if err != nil {
			return f, err
		}
		f.StoreID = &storeID
	}
	return f, nil
}

// --- Group update ---

// GroupCriteriaPayload selects the transfers of a group update. Either
// documentNumbers or the from/to/date triple must be provided.
type GroupCriteriaPayload struct {
	FromStoreID     *string   `json:"fromStoreId,omitempty"`
	ToStoreID       *string   `json:"toStoreId,omitempty"`
	Date            time.Time `json:"date,omitempty"`
	DocumentNumbers []int64   `json:"documentNumbers,omitempty"`
}

// ToCriteria converts to the domain criteria.
func (p *GroupCriteriaPayload) ToCriteria() (transfers.GroupCriteria, error) {
	c := transfers.GroupCriteria{Date: p.Date, DocumentNumbers: p.DocumentNumbers}

	var err error
	if c.FromID, err = ParseOptionalID(p.FromStoreID, "fromStoreId"); err != nil {
		return c, err
	}
	if c.ToID, err = ParseOptionalID(p.ToStoreID, "toStoreId"); err != nil {
		return c, err
	}
	return c, nil
}

// GroupUpdatesPayload carries the fields applied to every matched transfer.
type GroupUpdatesPayload struct {
	Status      *string    `json:"status,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	FromStoreID *string    `json:"fromStoreId,omitempty"`
	ToStoreID   *string    `json:"toStoreId,omitempty"`
}

// ToUpdates converts to the domain field updates.
func (p *GroupUpdatesPayload) ToUpdates() (transfers.FieldUpdates, error) {
	u := transfers.FieldUpdates{Date: p.Date}
	if p.Status != nil {
		status := transfers.Status(*p.Status)
		u.Status = &status
	}

	var err error
	if u.FromID, err = ParseOptionalID(p.FromStoreID, "fromStoreId"); err != nil {
		return u, err
	}
	if u.ToID, err = ParseOptionalID(p.ToStoreID, "toStoreId"); err != nil {
		return u, err
	}
	return u, nil
}

// GroupUpdateRequest is the request body for PUT /transfers/groups.
type GroupUpdateRequest struct {
	Criteria GroupCriteriaPayload `json:"criteria" binding:"required"`
	Updates  GroupUpdatesPayload  `json:"updates" binding:"required"`
}

// GroupUpdateResponse reports the outcome of a group update.
type GroupUpdateResponse struct {
	MatchedCount  int64                `json:"matchedCount"`
	ModifiedCount int64                `json:"modifiedCount"`
	Transfers     []transfers.Transfer `json:"transfers"`
}

// --- Barcode ---

// SetBarcodeRequest assigns a barcode to one movement line.
type SetBarcodeRequest struct {
	TransferID string `json:"transferId" binding:"required,uuid"`
	LineID     string `json:"lineId" binding:"required,uuid"`
	Barcode    string `json:"barcode" binding:"required"`
}

// --- Calendar ---

// CalendarQuery binds the calendar period plus the per-day filters.
// Store selections are store names; the value "unknown" selects records
// whose endpoint resolves to no active store.
type CalendarQuery struct {
	StartDate   time.Time `form:"startDate" time_format:"2006-01-02" binding:"required"`
	EndDate     time.Time `form:"endDate" time_format:"2006-01-02" binding:"required"`
	LegendTypes []string  `form:"legend"`
	Mode        string    `form:"mode" binding:"omitempty,oneof=all inventory transfers"`
	FromStores  []string  `form:"from"`
	ToStores    []string  `form:"to"`
	ApplyFrom   bool      `form:"applyFrom"`
	ApplyTo     bool      `form:"applyTo"`
}

// ToFilterSpec converts the query to the domain filter spec.
func (q *CalendarQuery) ToFilterSpec() transfers.FilterSpec {
	return transfers.FilterSpec{
		LegendTypes: q.LegendTypes,
		Mode:        transfers.Mode(q.Mode),
		FromStores:  toStoreFilters(q.FromStores),
		ToStores:    toStoreFilters(q.ToStores),
		ApplyFrom:   q.ApplyFrom,
		ApplyTo:     q.ApplyTo,
	}
}

func toStoreFilters(values []string) []transfers.StoreFilter {
	filters := make([]transfers.StoreFilter, 0, len(values))
	for _, v := range values {
		if v == transfers.UnknownStoreID {
			filters = append(filters, transfers.StoreFilter{ID: transfers.UnknownStoreID})
			continue
		}
		filters = append(filters, transfers.StoreFilter{Name: v})
	}
	return filters
}
