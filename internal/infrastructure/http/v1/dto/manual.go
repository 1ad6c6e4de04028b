package dto

import (
	"time"

	"transita/internal/core/id"
	"transita/internal/domain/manual"
	"transita/internal/domain/transfers"
)

// ManualItemPayload is one barcode line of a manual transfer request.
type ManualItemPayload struct {
	Barcode  string `json:"barcode" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// CreateManualTransferRequest is the request body for a manual transfer.
type CreateManualTransferRequest struct {
	FromStoreID  string              `json:"fromStoreId" binding:"required,uuid"`
	ToStoreID    string              `json:"toStoreId" binding:"required,uuid"`
	TransferDate time.Time           `json:"transferDate" binding:"required"`
	Status       string              `json:"status,omitempty"`
	ImportMethod string              `json:"importMethod,omitempty" binding:"omitempty,oneof=manual file scan"`
	Items        []ManualItemPayload `json:"items" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain transfer.
func (r *CreateManualTransferRequest) ToEntity() (*manual.Transfer, error) {
	fromID, err := ParseID(r.FromStoreID, "fromStoreId")
	if err != nil {
		return nil, err
	}
	toID, err := ParseID(r.ToStoreID, "toStoreId")
	if err != nil {
		return nil, err
	}

	t := manual.New(fromID, toID, r.TransferDate)
	if r.Status != "" {
		t.Status = transfers.Status(r.Status)
	}
	if r.ImportMethod != "" {
		t.ImportMethod = manual.ImportMethod(r.ImportMethod)
	}
	t.Items = toItems(t.ID, r.Items)
	t.RecalculateTotal()
	return t, nil
}

// UpdateManualTransferRequest is the request body for updating a manual transfer.
// Items, when present, replace the existing lines.
type UpdateManualTransferRequest struct {
	FromStoreID  string               `json:"fromStoreId" binding:"required,uuid"`
	ToStoreID    string               `json:"toStoreId" binding:"required,uuid"`
	TransferDate time.Time            `json:"transferDate" binding:"required"`
	Status       string               `json:"status" binding:"required"`
	Flag         *int                 `json:"flag,omitempty" binding:"omitempty,oneof=0 1"`
	Items        *[]ManualItemPayload `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

// ApplyTo applies the update to an existing transfer. Returns whether the
// item lines were replaced.
func (r *UpdateManualTransferRequest) ApplyTo(t *manual.Transfer) (bool, error) {
	fromID, err := ParseID(r.FromStoreID, "fromStoreId")
	if err != nil {
		return false, err
	}
	toID, err := ParseID(r.ToStoreID, "toStoreId")
	if err != nil {
		return false, err
	}

	t.FromStoreID = fromID
	t.ToStoreID = toID
	t.TransferDate = r.TransferDate.UTC()
	t.Status = transfers.Status(r.Status)
	if r.Flag != nil {
		t.Flag = *r.Flag
	}

	if r.Items == nil {
		return false, nil
	}
	t.Items = toItems(t.ID, *r.Items)
	t.RecalculateTotal()
	return true, nil
}

func toItems(transferID id.ID, payloads []ManualItemPayload) []manual.Item {
	items := make([]manual.Item, len(payloads))
	for i, p := range payloads {
		items[i] = manual.Item{
			ID:         id.New(),
			TransferID: transferID,
			Barcode:    p.Barcode,
			Quantity:   p.Quantity,
		}
	}
	return items
}
