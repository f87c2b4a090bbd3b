package models

import "time"

// Subject is a principal known to the permission service, identified by a
// "type:id" string such as "user:123" or "role:editor".
type Subject struct {
	Identifier  string                 `json:"identifier"`
	SubjectType string                 `json:"subject_type"`
	DisplayName string                 `json:"display_name,omitempty"`
	TenantID    string                 `json:"tenant_id,omitempty"`
	Active      bool                   `json:"active"`
	CreatedAt   time.Time              `json:"created_at"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// SubjectCreate registers a subject.
type SubjectCreate struct {
	Identifier  string                 `json:"identifier"`
	DisplayName string                 `json:"display_name,omitempty"`
	TenantID    string                 `json:"tenant_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// SubjectFilter narrows ListSubjects results.
type SubjectFilter struct {
	SubjectType string `json:"subject_type,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"`
	Active      *bool  `json:"active,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}
