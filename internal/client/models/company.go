package models

// Company statuses.
const (
	CompanyActive   = "active"
	CompanyInactive = "inactive"
)

// Company is a customer organization owning projects.
type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateCompanyParams is the payload for creating a company.
type CreateCompanyParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateCompanyParams carries the fields of a company update; nil fields
// are omitted from the payload.
type UpdateCompanyParams struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}
