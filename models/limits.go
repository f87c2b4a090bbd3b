package models

import "time"

// SetLimitRequest creates or updates a resource limit.
type SetLimitRequest struct {
	Subject      string                 `json:"subject"`
	ResourceType string                 `json:"resource_type"`
	Scope        string                 `json:"scope"`
	LimitValue   int64                  `json:"limit_value"`
	WindowType   WindowType             `json:"window_type"`
	TenantID     string                 `json:"tenant_id,omitempty"`
	ObjectID     string                 `json:"object_id,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// CheckLimitRequest asks whether consuming Amount would exceed the limit.
type CheckLimitRequest struct {
	Subject      string `json:"subject"`
	ResourceType string `json:"resource_type"`
	Scope        string `json:"scope"`
	Amount       int64  `json:"amount"`
	TenantID     string `json:"tenant_id,omitempty"`
	ObjectID     string `json:"object_id,omitempty"`
}

// SingleCheckLimitRequest is one element of a hierarchy batch check.
// CheckID correlates the request with its result; the batch is evaluated as
// independent checks, not as a combined constraint.
type SingleCheckLimitRequest struct {
	CheckID      string `json:"check_id,omitempty"`
	Subject      string `json:"subject"`
	ResourceType string `json:"resource_type"`
	Scope        string `json:"scope"`
	Amount       int64  `json:"amount"`
	TenantID     string `json:"tenant_id,omitempty"`
	ObjectID     string `json:"object_id,omitempty"`
}

// IncrementUsageRequest increments a usage counter.
type IncrementUsageRequest struct {
	Subject      string `json:"subject"`
	ResourceType string `json:"resource_type"`
	Scope        string `json:"scope"`
	Amount       int64  `json:"amount"`
	TenantID     string `json:"tenant_id,omitempty"`
	ObjectID     string `json:"object_id,omitempty"`
}

// ResetUsageRequest resets a usage counter to zero.
type ResetUsageRequest struct {
	Subject      string `json:"subject"`
	ResourceType string `json:"resource_type"`
	Scope        string `json:"scope"`
	TenantID     string `json:"tenant_id,omitempty"`
	ObjectID     string `json:"object_id,omitempty"`
}

// LimitSnapshot is the remote-authoritative state of one resource limit as
// reported by the service. It is the input to the quota engine and is never
// cached locally.
type LimitSnapshot struct {
	LimitValue      int64      `json:"limit_value"`
	CurrentUsage    int64      `json:"current_usage"`
	WindowType      WindowType `json:"window_type"`
	WindowStartedAt time.Time  `json:"window_started_at"`
}

// LimitDetail describes a stored limit, including window-change bookkeeping
// the service reports when a set operation replaced the window type.
type LimitDetail struct {
	LimitID            int64                  `json:"limit_id"`
	Subject            string                 `json:"subject"`
	ResourceType       string                 `json:"resource_type"`
	Scope              string                 `json:"scope"`
	LimitValue         int64                  `json:"limit_value"`
	WindowType         WindowType             `json:"window_type"`
	TenantID           string                 `json:"tenant_id,omitempty"`
	ObjectID           string                 `json:"object_id,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
	WindowChanged      bool                   `json:"window_changed"`
	PreviousWindowType WindowType             `json:"previous_window_type,omitempty"`
	PreviousUsage      int64                  `json:"previous_usage,omitempty"`
}

// CheckLimitResult is the interpreted outcome of a limit check.
type CheckLimitResult struct {
	Allowed      bool       `json:"allowed"`
	Limit        int64      `json:"limit"`
	CurrentUsage int64      `json:"current_usage"`
	Remaining    int64      `json:"remaining"`
	WouldExceed  bool       `json:"would_exceed"`
	WindowType   WindowType `json:"window_type"`
	WindowStart  time.Time  `json:"window_start"`
	WindowEnd    time.Time  `json:"window_end"`
	// ResetsAt is the zero time for "total" windows, which never reset.
	ResetsAt time.Time `json:"resets_at"`
}

// SingleCheckLimitResult is one element of a hierarchy batch result.
type SingleCheckLimitResult struct {
	CheckID string `json:"check_id,omitempty"`
	CheckLimitResult
}

// CheckManyLimitsResult wraps a hierarchy batch response. Results preserve
// request order; AllAllowed is a convenience AND over the elements.
type CheckManyLimitsResult struct {
	Results    []SingleCheckLimitResult `json:"results"`
	AllAllowed bool                     `json:"all_allowed"`
}

// UsageDetail is the current usage of one resource limit.
type UsageDetail struct {
	Subject         string     `json:"subject"`
	ResourceType    string     `json:"resource_type"`
	Scope           string     `json:"scope"`
	Limit           int64      `json:"limit"`
	CurrentUsage    int64      `json:"current_usage"`
	Remaining       int64      `json:"remaining"`
	WindowType      WindowType `json:"window_type"`
	WindowStart     time.Time  `json:"window_start"`
	WindowEnd       time.Time  `json:"window_end"`
	LastIncrementAt *time.Time `json:"last_increment_at,omitempty"`
	IsExpired       bool       `json:"is_expired"`
}

// IncrementUsageResult is the outcome of an increment.
type IncrementUsageResult struct {
	Success      bool      `json:"success"`
	CurrentUsage int64     `json:"current_usage"`
	Limit        int64     `json:"limit"`
	Remaining    int64     `json:"remaining"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
}

// IncrementManyResult is the outcome of a batch increment.
type IncrementManyResult struct {
	Results   []IncrementUsageResult `json:"results"`
	Total     int                    `json:"total"`
	Succeeded int                    `json:"succeeded"`
}

// ResetUsageResult is the outcome of a usage reset.
type ResetUsageResult struct {
	Reset         bool  `json:"reset"`
	PreviousUsage int64 `json:"previous_usage"`
	CurrentUsage  int64 `json:"current_usage"`
}

// LimitFilter narrows ListLimits results.
type LimitFilter struct {
	Subject      string     `json:"subject,omitempty"`
	ResourceType string     `json:"resource_type,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	TenantID     string     `json:"tenant_id,omitempty"`
	WindowType   WindowType `json:"window_type,omitempty"`
	Limit        int        `json:"limit,omitempty"`
	Offset       int        `json:"offset,omitempty"`
}
