package models

// Vendor statuses.
const (
	VendorActive   = "active"
	VendorPending  = "pending"
	VendorInactive = "inactive"
)

// Vendor is an external foundry/IP partner with an NDA on file.
type Vendor struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	NDAURL           string   `json:"nda_url,omitempty"`
	LinkedSpecs      []string `json:"linked_specs,omitempty"`
	LinkedChecklists []string `json:"linked_checklists,omitempty"`
}

// VendorParams is the payload for creating or updating a vendor.
type VendorParams struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}
