package models

// ChecklistItem is one line of a checklist.
type ChecklistItem struct {
	Text     string `json:"text"`
	Required bool   `json:"required"`
}

// Checklist is either a reusable template (IsTemplate) or an active
// instance attached to a project.
type Checklist struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Items       []ChecklistItem `json:"items"`
	Status      string          `json:"status,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	AssignedTo  []string        `json:"assigned_to,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
	IsTemplate  bool            `json:"is_template,omitempty"`
}

// ChecklistParams is the payload for creating or updating a checklist.
type ChecklistParams struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Items       []ChecklistItem `json:"items,omitempty"`
	IsTemplate  bool            `json:"is_template,omitempty"`
}
