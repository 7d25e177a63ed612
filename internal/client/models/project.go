package models

// Project platforms.
const (
	PlatformASIC = "ASIC"
	PlatformFPGA = "FPGA"
	PlatformSoC  = "SoC"
)

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectPlanning  = "planning"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

// Project is a tape-out project. SpecIDs and ChecklistIDs are advisory
// links maintained by the backend; no referential integrity is enforced
// client-side.
type Project struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Platform     string  `json:"platform"`
	EDATool      string  `json:"eda_tool"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	CompanyID    int64   `json:"company_id"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	SpecIDs      []int64 `json:"spec_ids,omitempty"`
	ChecklistIDs []int64 `json:"checklist_ids,omitempty"`
}

// CreateProjectParams is the payload for creating a project.
type CreateProjectParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Platform    string `json:"platform"`
	EDATool     string `json:"eda_tool"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	CompanyID   int64  `json:"company_id"`
}

// UpdateProjectParams carries the fields of a project update; nil fields
// are omitted from the payload.
type UpdateProjectParams struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Platform    *string `json:"platform,omitempty"`
	EDATool     *string `json:"eda_tool,omitempty"`
	Type        *string `json:"type,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// LinkedContentItem is one element of a project's linked-content aggregate.
// The backend returns a flat array discriminated by Type.
type LinkedContentItem struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Linked-content item types.
const (
	LinkedSpecification = "specification"
	LinkedChecklist     = "checklist"
	LinkedSpecLint      = "spec_lint"
)

// LinkedContent partitions a project's linked content by kind.
type LinkedContent struct {
	Specs      []LinkedContentItem
	Checklists []LinkedContentItem
	SpecLints  []LinkedContentItem
}

// PartitionLinkedContent splits the backend's flat linked-content array by
// item type. Unknown types are dropped.
func PartitionLinkedContent(items []LinkedContentItem) LinkedContent {
	var lc LinkedContent
	for _, item := range items {
		switch item.Type {
		case LinkedSpecification:
			lc.Specs = append(lc.Specs, item)
		case LinkedChecklist:
			lc.Checklists = append(lc.Checklists, item)
		case LinkedSpecLint:
			lc.SpecLints = append(lc.SpecLints, item)
		}
	}
	return lc
}
