package permsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/permsdk/models"
	"github.com/turtacn/permsdk/pkg/errors"
	"github.com/turtacn/permsdk/quota"
)

// SetLimit creates or updates a resource limit. Changing the window type of
// an active limit is rejected by the service as a conflict; the returned
// detail reports window bookkeeping when the service replaced an inactive
// window. Limit state is never cached.
func (c *Client) SetLimit(ctx context.Context, req models.SetLimitRequest) (models.LimitDetail, error) {
	if !req.WindowType.IsValid() {
		return models.LimitDetail{}, errors.ErrValidation(
			"window_type must be one of hourly, daily, monthly, total", "window_type")
	}
	if req.LimitValue < 0 {
		return models.LimitDetail{}, errors.ErrValidation("limit_value cannot be negative", "limit_value")
	}
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateSubject(req.Subject); err != nil {
			return models.LimitDetail{}, err
		}
	}

	var detail models.LimitDetail
	err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/limits/set", req, &detail)
	return detail, err
}

// CheckLimit reports whether consuming req.Amount would exceed the limit.
// The service returns the authoritative usage snapshot; window arithmetic
// and remaining-capacity math happen client-side in the quota engine.
// An Amount of zero checks for one unit.
func (c *Client) CheckLimit(ctx context.Context, req models.CheckLimitRequest) (models.CheckLimitResult, error) {
	if req.Amount < 0 {
		return models.CheckLimitResult{}, errors.ErrValidation("amount cannot be negative", "amount")
	}
	if req.Amount == 0 {
		req.Amount = 1
	}
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateSubject(req.Subject); err != nil {
			return models.CheckLimitResult{}, err
		}
	}

	var snapshot models.LimitSnapshot
	if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/limits/check", req, &snapshot); err != nil {
		return models.CheckLimitResult{}, err
	}
	return quota.Evaluate(snapshot, req.Amount, time.Now()), nil
}

type checkManyLimitsRequest struct {
	Checks []models.SingleCheckLimitRequest `json:"checks"`
}

type checkManyLimitsResponse struct {
	Snapshots []models.LimitSnapshot `json:"snapshots"`
}

// CheckManyLimits evaluates a hierarchy of limits in one service round trip.
// Each element is an independent check; results preserve request order and
// carry each request's check_id. AllAllowed is true only when every element
// is allowed.
func (c *Client) CheckManyLimits(ctx context.Context, reqs []models.SingleCheckLimitRequest) (models.CheckManyLimitsResult, error) {
	if len(reqs) == 0 {
		return models.CheckManyLimitsResult{AllAllowed: true}, nil
	}
	for i := range reqs {
		if reqs[i].Amount < 0 {
			return models.CheckManyLimitsResult{}, errors.ErrValidation("amount cannot be negative", "amount")
		}
		if reqs[i].Amount == 0 {
			reqs[i].Amount = 1
		}
		if c.cfg.ValidateIdentifiers {
			if err := models.ValidateSubject(reqs[i].Subject); err != nil {
				return models.CheckManyLimitsResult{}, err
			}
		}
	}

	var resp checkManyLimitsResponse
	if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/limits/check-many", checkManyLimitsRequest{Checks: reqs}, &resp); err != nil {
		return models.CheckManyLimitsResult{}, err
	}

	results, err := quota.EvaluateBatch(resp.Snapshots, reqs, time.Now())
	if err != nil {
		return models.CheckManyLimitsResult{}, err
	}

	all := true
	for _, r := range results {
		if !r.Allowed {
			all = false
			break
		}
	}
	return models.CheckManyLimitsResult{Results: results, AllAllowed: all}, nil
}

// IncrementUsage consumes Amount units against a limit. The service is the
// single writer of usage counters; the result reflects the post-increment
// state. An Amount of zero increments by one unit.
func (c *Client) IncrementUsage(ctx context.Context, req models.IncrementUsageRequest) (models.IncrementUsageResult, error) {
	if req.Amount < 0 {
		return models.IncrementUsageResult{}, errors.ErrValidation("amount cannot be negative", "amount")
	}
	if req.Amount == 0 {
		req.Amount = 1
	}
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateSubject(req.Subject); err != nil {
			return models.IncrementUsageResult{}, err
		}
	}

	var result models.IncrementUsageResult
	err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/limits/increment", req, &result)
	return result, err
}

type incrementManyRequest struct {
	Increments []models.IncrementUsageRequest `json:"increments"`
}

// IncrementManyUsage applies a batch of increments in one call, typically
// one per level of a limit hierarchy after a successful CheckManyLimits.
func (c *Client) IncrementManyUsage(ctx context.Context, reqs []models.IncrementUsageRequest) (models.IncrementManyResult, error) {
	if len(reqs) == 0 {
		return models.IncrementManyResult{}, nil
	}
	for i := range reqs {
		if reqs[i].Amount < 0 {
			return models.IncrementManyResult{}, errors.ErrValidation("amount cannot be negative", "amount")
		}
		if reqs[i].Amount == 0 {
			reqs[i].Amount = 1
		}
		if c.cfg.ValidateIdentifiers {
			if err := models.ValidateSubject(reqs[i].Subject); err != nil {
				return models.IncrementManyResult{}, err
			}
		}
	}

	var result models.IncrementManyResult
	err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/limits/increment-many", incrementManyRequest{Increments: reqs}, &result)
	return result, err
}

// GetUsage fetches the current usage of one limit.
func (c *Client) GetUsage(ctx context.Context, subject, resourceType, scope, tenantID, objectID string) (models.UsageDetail, error) {
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateSubject(subject); err != nil {
			return models.UsageDetail{}, err
		}
	}

	values := url.Values{}
	values.Set("subject", subject)
	values.Set("resource_type", resourceType)
	values.Set("scope", scope)
	setNonEmpty(values, "tenant_id", tenantID)
	setNonEmpty(values, "object_id", objectID)

	var detail models.UsageDetail
	err := c.transport.Execute(ctx, http.MethodGet, "/api/v1/limits/usage"+encodeQuery(values), nil, &detail)
	return detail, err
}

// ResetUsage zeroes a usage counter, typically from an administrative tool.
func (c *Client) ResetUsage(ctx context.Context, req models.ResetUsageRequest) (models.ResetUsageResult, error) {
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateSubject(req.Subject); err != nil {
			return models.ResetUsageResult{}, err
		}
	}

	var result models.ResetUsageResult
	err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/limits/reset", req, &result)
	return result, err
}

// ListLimits pages through stored limits matching the filter.
func (c *Client) ListLimits(ctx context.Context, filter models.LimitFilter) (models.Paginated[models.LimitDetail], error) {
	values := url.Values{}
	setNonEmpty(values, "subject", filter.Subject)
	setNonEmpty(values, "resource_type", filter.ResourceType)
	setNonEmpty(values, "scope", filter.Scope)
	setNonEmpty(values, "tenant_id", filter.TenantID)
	setNonEmpty(values, "window_type", string(filter.WindowType))
	setPositive(values, "limit", filter.Limit)
	setPositive(values, "offset", filter.Offset)

	var page models.Paginated[models.LimitDetail]
	err := c.transport.Execute(ctx, http.MethodGet, "/api/v1/limits"+encodeQuery(values), nil, &page)
	return page, err
}
