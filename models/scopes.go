package models

import "time"

// Scope is a permission namespace such as "documents.management".
type Scope struct {
	Identifier  string                 `json:"identifier"`
	DisplayName string                 `json:"display_name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Active      bool                   `json:"active"`
	CreatedAt   time.Time              `json:"created_at"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ScopeCreate registers a scope.
type ScopeCreate struct {
	Identifier  string                 `json:"identifier"`
	DisplayName string                 `json:"display_name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ScopeFilter narrows ListScopes results.
type ScopeFilter struct {
	Active *bool `json:"active,omitempty"`
	Limit  int   `json:"limit,omitempty"`
	Offset int   `json:"offset,omitempty"`
}
