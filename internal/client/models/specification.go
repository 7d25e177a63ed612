package models

import (
	"net/url"
)

// Specification statuses.
const (
	SpecDraft         = "Draft"
	SpecPendingReview = "Pending Review"
	SpecApproved      = "Approved"
	SpecRejected      = "Rejected"
	SpecUpdated       = "Updated After Rejection"
	SpecArchived      = "Archived"
)

// Specification is an uploaded design specification document.
type Specification struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FileName    string `json:"file_name,omitempty"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	UploadedBy  string `json:"uploaded_by"`
	UploadedOn  string `json:"uploaded_on"`
	AssignedTo  string `json:"assigned_to,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	FileType    string `json:"file_type,omitempty"`
	Type        string `json:"type,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	ApprovedBy  string `json:"approved_by,omitempty"`
	RejectedBy  string `json:"rejected_by,omitempty"`
}

// Sentinel filter values meaning "no filter".
const (
	AllStatuses  = "All Status"
	AllAssignees = "All Assignees"
	AllUploaders = "All Uploaders"
	AllFileTypes = "All File Types"
)

// SpecificationFilters narrows and orders the specification list.
// Zero values and "All ..." sentinels are skipped when building the query.
type SpecificationFilters struct {
	Status     string
	AssignedTo string
	UploadedBy string
	FileType   string
	DateFrom   string
	DateTo     string
	Platform   string
	EDATool    string
	Type       string
	SortBy     string
	SortOrder  string
}

// Query renders the filters as URL query values.
func (f SpecificationFilters) Query() url.Values {
	params := url.Values{}
	add := func(key, value, sentinel string) {
		if value != "" && value != sentinel {
			params.Set(key, value)
		}
	}
	add("status", f.Status, AllStatuses)
	add("assigned_to", f.AssignedTo, AllAssignees)
	add("uploaded_by", f.UploadedBy, AllUploaders)
	add("file_type", f.FileType, AllFileTypes)
	add("date_from", f.DateFrom, "")
	add("date_to", f.DateTo, "")
	add("platform", f.Platform, "")
	add("eda_tool", f.EDATool, "")
	add("type", f.Type, "")
	add("sort_by", f.SortBy, "")
	add("sort_order", f.SortOrder, "")
	return params
}
