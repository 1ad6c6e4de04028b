package dto

import (
	"transita/internal/domain/catalogs/store"
)

// CreateStoreRequest is the request body for creating a store.
type CreateStoreRequest struct {
	Name        string  `json:"name" binding:"required"`
	InditexCode string  `json:"inditexCode" binding:"required"`
	FuturaCode  string  `json:"futuraCode" binding:"required"`
	Status      string  `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
	Address     *string `json:"address,omitempty"`
}

// ToEntity converts the request to a domain store.
func (r *CreateStoreRequest) ToEntity() *store.Store {
	st := store.New(r.Name, r.InditexCode, r.FuturaCode)
	if r.Status != "" {
		st.Status = store.StoreStatus(r.Status)
	}
	st.Address = r.Address
	return st
}

// UpdateStoreRequest is the request body for updating a store.
type UpdateStoreRequest struct {
	Name        string  `json:"name" binding:"required"`
	InditexCode string  `json:"inditexCode" binding:"required"`
	FuturaCode  string  `json:"futuraCode" binding:"required"`
	Status      string  `json:"status" binding:"required,oneof=active inactive"`
	Address     *string `json:"address,omitempty"`
}

// ApplyTo applies the update to an existing store.
func (r *UpdateStoreRequest) ApplyTo(st *store.Store) {
	st.Name = r.Name
	st.InditexCode = r.InditexCode
	st.FuturaCode = r.FuturaCode
	st.Status = store.StoreStatus(r.Status)
	st.Address = r.Address
}

// StoreListQuery binds store list filters.
type StoreListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search string `form:"search"`
}

// ToFilter converts to the domain filter.
func (q *StoreListQuery) ToFilter() store.ListFilter {
	f := store.ListFilter{Search: q.Search}
	if q.Status != "" {
		status := store.StoreStatus(q.Status)
		f.Status = &status
	}
	return f
}
