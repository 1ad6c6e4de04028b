package dto

import (
	"time"

	"transita/internal/domain/inventories"
	"transita/internal/domain/transfers"
)

// CreateInventoryRequest is the request body for planning an inventory.
type CreateInventoryRequest struct {
	Date          time.Time `json:"date" binding:"required"`
	DestinationID string    `json:"destinationId" binding:"required,uuid"`
	Comment       string    `json:"comment,omitempty"`
	Status        string    `json:"status,omitempty"`
}

// ToEntity converts the request to a domain entry.
func (r *CreateInventoryRequest) ToEntity() (*inventories.Entry, error) {
	destID, err := ParseID(r.DestinationID, "destinationId")
	if err != nil {
		return nil, err
	}

	e := inventories.New(r.Date, destID)
	e.Comment = r.Comment
	if r.Status != "" {
		e.Status = transfers.Status(r.Status)
	}
	return e, nil
}

// UpdateInventoryRequest is the request body for updating an inventory entry.
type UpdateInventoryRequest struct {
	Date          time.Time `json:"date" binding:"required"`
	DestinationID string    `json:"destinationId" binding:"required,uuid"`
	Comment       string    `json:"comment,omitempty"`
	Status        string    `json:"status" binding:"required"`
}

// ApplyTo applies the update to an existing entry.
func (r *UpdateInventoryRequest) ApplyTo(e *inventories.Entry) error {
	destID, err := ParseID(r.DestinationID, "destinationId")
	if err != nil {
		return err
	}

	e.Date = r.Date.UTC()
	e.DestinationID = destID
	e.Comment = r.Comment
	e.Status = transfers.Status(r.Status)
	return nil
}
