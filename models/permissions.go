package models

import (
	"strings"
	"time"
)

// GrantRequest grants a permission to a subject.
type GrantRequest struct {
	Subject   string                 `json:"subject"`
	Scope     string                 `json:"scope"`
	Action    string                 `json:"action"`
	TenantID  string                 `json:"tenant_id,omitempty"`
	ObjectID  string                 `json:"object_id,omitempty"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Normalize lowercases scope and action, matching service-side canonical form.
func (r *GrantRequest) Normalize() {
	r.Scope = strings.ToLower(r.Scope)
	r.Action = strings.ToLower(r.Action)
}

// RevokeRequest revokes a previously granted permission.
type RevokeRequest struct {
	Subject  string `json:"subject"`
	Scope    string `json:"scope"`
	Action   string `json:"action"`
	TenantID string `json:"tenant_id,omitempty"`
	ObjectID string `json:"object_id,omitempty"`
}

// Normalize lowercases scope and action.
func (r *RevokeRequest) Normalize() {
	r.Scope = strings.ToLower(r.Scope)
	r.Action = strings.ToLower(r.Action)
}

// CheckRequest asks whether any of Subjects holds the permission. Subjects
// are evaluated by the service in priority order; the set of subjects is
// order-independent for caching purposes.
type CheckRequest struct {
	Subjects []string `json:"subjects"`
	Scope    string   `json:"scope"`
	Action   string   `json:"action"`
	TenantID string   `json:"tenant_id,omitempty"`
	ObjectID string   `json:"object_id,omitempty"`
	// CheckID correlates this request with its result in batch calls.
	CheckID string `json:"check_id,omitempty"`
}

// Normalize lowercases scope and action.
func (r *CheckRequest) Normalize() {
	r.Scope = strings.ToLower(r.Scope)
	r.Action = strings.ToLower(r.Action)
}

// CheckResult is the outcome of a permission check.
type CheckResult struct {
	Allowed             bool   `json:"allowed"`
	MatchedSubject      string `json:"matched_subject,omitempty"`
	MatchedAssignmentID int64  `json:"matched_assignment_id,omitempty"`
	CheckID             string `json:"check_id,omitempty"`
}

// PermissionAssignment is a granted permission as stored by the service.
type PermissionAssignment struct {
	AssignmentID int64                  `json:"assignment_id"`
	Subject      string                 `json:"subject"`
	Scope        string                 `json:"scope"`
	Action       string                 `json:"action"`
	TenantID     string                 `json:"tenant_id,omitempty"`
	ObjectID     string                 `json:"object_id,omitempty"`
	GrantedAt    time.Time              `json:"granted_at"`
	ExpiresAt    *time.Time             `json:"expires_at,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// IsExpired reports whether the assignment's expiry has passed.
func (a *PermissionAssignment) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// GrantManyResult summarizes a batch grant.
type GrantManyResult struct {
	Granted   []PermissionAssignment `json:"granted"`
	Failed    []GrantFailure         `json:"failed,omitempty"`
	Total     int                    `json:"total"`
	Succeeded int                    `json:"succeeded"`
}

// GrantFailure is one rejected element of a batch grant.
type GrantFailure struct {
	Subject string `json:"subject"`
	Scope   string `json:"scope"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// PermissionFilter narrows ListPermissions results.
type PermissionFilter struct {
	Subject  string `json:"subject,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Action   string `json:"action,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
