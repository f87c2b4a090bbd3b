// Package models defines the typed request and result shapes exchanged with
// the permission service.
package models

// WindowType is the quota reset cadence of a resource limit.
type WindowType string

const (
	// WindowHourly resets usage every hour.
	WindowHourly WindowType = "hourly"
	// WindowDaily resets usage every calendar day.
	WindowDaily WindowType = "daily"
	// WindowMonthly resets usage every calendar month.
	WindowMonthly WindowType = "monthly"
	// WindowTotal never resets automatically.
	WindowTotal WindowType = "total"
)

// IsValid reports whether w is one of the known window types.
func (w WindowType) IsValid() bool {
	switch w {
	case WindowHourly, WindowDaily, WindowMonthly, WindowTotal:
		return true
	}
	return false
}

// Paginated wraps a paginated listing response.
type Paginated[T any] struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Items  []T `json:"items"`
}

// HasMore reports whether further pages exist.
func (p *Paginated[T]) HasMore() bool {
	return p.Offset+len(p.Items) < p.Total
}

// NextOffset returns the offset of the next page, or -1 when exhausted.
func (p *Paginated[T]) NextOffset() int {
	if !p.HasMore() {
		return -1
	}
	return p.Offset + p.Limit
}

// APIError is the error body the service returns alongside non-2xx statuses.
type APIError struct {
	Detail    string `json:"detail"`
	ErrorType string `json:"error_type,omitempty"`
	Field     string `json:"field,omitempty"`
}
