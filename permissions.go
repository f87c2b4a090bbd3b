package permsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/permsdk/cache"
	"github.com/turtacn/permsdk/models"
	"github.com/turtacn/permsdk/pkg/logger"
)

// CheckPermission reports whether any of req.Subjects holds the permission.
// A fresh cached result short-circuits the network; on a miss the resolved
// boolean is cached for the configured TTL. Concurrent identical misses are
// collapsed into a single service call.
func (c *Client) CheckPermission(ctx context.Context, req models.CheckRequest) (models.CheckResult, error) {
	req.Normalize()
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateCheckRequest(&req); err != nil {
			return models.CheckResult{}, err
		}
	}

	fp := cache.NewFingerprint(req.Subjects, req.Scope, req.Action, req.TenantID, req.ObjectID)
	if allowed, ok := c.cache.Lookup(ctx, fp); ok {
		return models.CheckResult{Allowed: allowed, CheckID: req.CheckID}, nil
	}

	v, err, _ := c.flight.Do(fp.Hash(), func() (interface{}, error) {
		var result models.CheckResult
		if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/permissions/check", req, &result); err != nil {
			return nil, err
		}
		c.cache.Store(ctx, fp, result.Allowed, c.cfg.Cache.TTL)
		return result, nil
	})
	if err != nil {
		return models.CheckResult{}, err
	}

	result := v.(models.CheckResult)
	result.CheckID = req.CheckID
	return result, nil
}

type checkManyRequest struct {
	Checks []models.CheckRequest `json:"checks"`
}

type checkManyResponse struct {
	Results []models.CheckResult `json:"results"`
}

// CheckManyPermissions resolves a batch of checks. Each element consults the
// cache independently; only the missed elements travel to the service, in a
// single call. Results preserve request order and carry each request's
// check_id.
func (c *Client) CheckManyPermissions(ctx context.Context, reqs []models.CheckRequest) ([]models.CheckResult, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	results := make([]models.CheckResult, len(reqs))
	fingerprints := make([]cache.Fingerprint, len(reqs))
	var missed []int

	for i := range reqs {
		reqs[i].Normalize()
		if c.cfg.ValidateIdentifiers {
			if err := models.ValidateCheckRequest(&reqs[i]); err != nil {
				return nil, err
			}
		}

		fingerprints[i] = cache.NewFingerprint(
			reqs[i].Subjects, reqs[i].Scope, reqs[i].Action, reqs[i].TenantID, reqs[i].ObjectID)
		if allowed, ok := c.cache.Lookup(ctx, fingerprints[i]); ok {
			results[i] = models.CheckResult{Allowed: allowed, CheckID: reqs[i].CheckID}
			continue
		}
		missed = append(missed, i)
	}

	if len(missed) == 0 {
		return results, nil
	}

	batch := checkManyRequest{Checks: make([]models.CheckRequest, len(missed))}
	for j, i := range missed {
		batch.Checks[j] = reqs[i]
	}

	var resp checkManyResponse
	if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/permissions/check-many", batch, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) != len(missed) {
		c.log.Warn(ctx, "batch check result count mismatch",
			logger.Fields{"sent": len(missed), "received": len(resp.Results)})
	}

	for j, i := range missed {
		if j >= len(resp.Results) {
			break
		}
		results[i] = resp.Results[j]
		results[i].CheckID = reqs[i].CheckID
		c.cache.Store(ctx, fingerprints[i], results[i].Allowed, c.cfg.Cache.TTL)
	}
	return results, nil
}

// GrantPermission grants a permission and invalidates the subject's cached
// checks so the grant is visible to the next check.
func (c *Client) GrantPermission(ctx context.Context, req models.GrantRequest) (models.PermissionAssignment, error) {
	req.Normalize()
	if c.cfg.ValidateIdentifiers {
		if err := c.validateGrant(req.Subject, req.Scope, req.Action); err != nil {
			return models.PermissionAssignment{}, err
		}
	}

	var assignment models.PermissionAssignment
	if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/permissions/grant", req, &assignment); err != nil {
		return models.PermissionAssignment{}, err
	}
	c.cache.InvalidateSubjects(ctx, []string{req.Subject})
	return assignment, nil
}

type grantManyRequest struct {
	Grants []models.GrantRequest `json:"grants"`
}

// GrantManyPermissions grants a batch in one call. Every subject named in
// the batch is invalidated, including subjects of elements the service
// rejected; over-invalidation only costs a cache miss.
func (c *Client) GrantManyPermissions(ctx context.Context, reqs []models.GrantRequest) (models.GrantManyResult, error) {
	if len(reqs) == 0 {
		return models.GrantManyResult{}, nil
	}
	for i := range reqs {
		reqs[i].Normalize()
		if c.cfg.ValidateIdentifiers {
			if err := c.validateGrant(reqs[i].Subject, reqs[i].Scope, reqs[i].Action); err != nil {
				return models.GrantManyResult{}, err
			}
		}
	}

	var result models.GrantManyResult
	if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/permissions/grant-many", grantManyRequest{Grants: reqs}, &result); err != nil {
		return models.GrantManyResult{}, err
	}

	c.cache.InvalidateSubjects(ctx, grantSubjects(reqs))
	return result, nil
}

// RevokePermission revokes a permission and invalidates the subject's cached
// checks. Revoking an absent permission is not an error.
func (c *Client) RevokePermission(ctx context.Context, req models.RevokeRequest) error {
	req.Normalize()
	if c.cfg.ValidateIdentifiers {
		if err := c.validateGrant(req.Subject, req.Scope, req.Action); err != nil {
			return err
		}
	}

	if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/permissions/revoke", req, nil); err != nil {
		return err
	}
	c.cache.InvalidateSubjects(ctx, []string{req.Subject})
	return nil
}

type revokeManyRequest struct {
	Revocations []models.RevokeRequest `json:"revocations"`
}

type revokeManyResponse struct {
	Revoked int `json:"revoked"`
}

// RevokeManyPermissions revokes a batch in one call and returns the number
// of assignments actually removed.
func (c *Client) RevokeManyPermissions(ctx context.Context, reqs []models.RevokeRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}
	subjects := make([]string, 0, len(reqs))
	for i := range reqs {
		reqs[i].Normalize()
		if c.cfg.ValidateIdentifiers {
			if err := c.validateGrant(reqs[i].Subject, reqs[i].Scope, reqs[i].Action); err != nil {
				return 0, err
			}
		}
		subjects = append(subjects, reqs[i].Subject)
	}

	var resp revokeManyResponse
	if err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/permissions/revoke-many", revokeManyRequest{Revocations: reqs}, &resp); err != nil {
		return 0, err
	}
	c.cache.InvalidateSubjects(ctx, dedupe(subjects))
	return resp.Revoked, nil
}

// ListPermissions pages through stored assignments matching the filter.
func (c *Client) ListPermissions(ctx context.Context, filter models.PermissionFilter) (models.Paginated[models.PermissionAssignment], error) {
	values := url.Values{}
	setNonEmpty(values, "subject", filter.Subject)
	setNonEmpty(values, "scope", filter.Scope)
	setNonEmpty(values, "action", filter.Action)
	setNonEmpty(values, "tenant_id", filter.TenantID)
	setPositive(values, "limit", filter.Limit)
	setPositive(values, "offset", filter.Offset)

	var page models.Paginated[models.PermissionAssignment]
	err := c.transport.Execute(ctx, http.MethodGet, "/api/v1/permissions"+encodeQuery(values), nil, &page)
	return page, err
}

// InvalidateCache drops every cached check for the given subjects. With no
// subjects it flushes the whole cache. Useful after out-of-band permission
// changes made by another process.
func (c *Client) InvalidateCache(ctx context.Context, subjects ...string) {
	if len(subjects) == 0 {
		c.cache.InvalidateAll(ctx)
		return
	}
	c.cache.InvalidateSubjects(ctx, subjects)
}

func (c *Client) validateGrant(subject, scope, action string) error {
	if err := models.ValidateSubject(subject); err != nil {
		return err
	}
	if err := models.ValidateScope(scope); err != nil {
		return err
	}
	return models.ValidateAction(action)
}

func grantSubjects(reqs []models.GrantRequest) []string {
	subjects := make([]string, 0, len(reqs))
	for _, r := range reqs {
		subjects = append(subjects, r.Subject)
	}
	return dedupe(subjects)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func setNonEmpty(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

func setPositive(values url.Values, key string, value int) {
	if value > 0 {
		values.Set(key, strconv.Itoa(value))
	}
}
