package permsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/permsdk/models"
)

// CreateSubject registers a subject in the service directory.
func (c *Client) CreateSubject(ctx context.Context, req models.SubjectCreate) (models.Subject, error) {
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateSubject(req.Identifier); err != nil {
			return models.Subject{}, err
		}
	}

	var subject models.Subject
	err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/subjects", req, &subject)
	return subject, err
}

// GetSubject fetches one subject by identifier.
func (c *Client) GetSubject(ctx context.Context, identifier, tenantID string) (models.Subject, error) {
	values := url.Values{}
	setNonEmpty(values, "tenant_id", tenantID)

	var subject models.Subject
	err := c.transport.Execute(ctx, http.MethodGet,
		"/api/v1/subjects/"+url.PathEscape(identifier)+encodeQuery(values), nil, &subject)
	return subject, err
}

// ListSubjects pages through registered subjects matching the filter.
func (c *Client) ListSubjects(ctx context.Context, filter models.SubjectFilter) (models.Paginated[models.Subject], error) {
	values := url.Values{}
	setNonEmpty(values, "subject_type", filter.SubjectType)
	setNonEmpty(values, "tenant_id", filter.TenantID)
	if filter.Active != nil {
		values.Set("active", strconv.FormatBool(*filter.Active))
	}
	setPositive(values, "limit", filter.Limit)
	setPositive(values, "offset", filter.Offset)

	var page models.Paginated[models.Subject]
	err := c.transport.Execute(ctx, http.MethodGet, "/api/v1/subjects"+encodeQuery(values), nil, &page)
	return page, err
}

// DeactivateSubject marks a subject inactive. Its cached checks are
// invalidated so deactivation takes effect without waiting for TTL expiry.
func (c *Client) DeactivateSubject(ctx context.Context, identifier string) error {
	if err := c.transport.Execute(ctx, http.MethodDelete,
		"/api/v1/subjects/"+url.PathEscape(identifier), nil, nil); err != nil {
		return err
	}
	c.cache.InvalidateSubjects(ctx, []string{identifier})
	return nil
}

// CreateScope registers a permission scope.
func (c *Client) CreateScope(ctx context.Context, req models.ScopeCreate) (models.Scope, error) {
	if c.cfg.ValidateIdentifiers {
		if err := models.ValidateScope(req.Identifier); err != nil {
			return models.Scope{}, err
		}
	}

	var scope models.Scope
	err := c.transport.Execute(ctx, http.MethodPost, "/api/v1/scopes", req, &scope)
	return scope, err
}

// GetScope fetches one scope by identifier.
func (c *Client) GetScope(ctx context.Context, identifier string) (models.Scope, error) {
	var scope models.Scope
	err := c.transport.Execute(ctx, http.MethodGet,
		"/api/v1/scopes/"+url.PathEscape(identifier), nil, &scope)
	return scope, err
}

// ListScopes pages through registered scopes matching the filter.
func (c *Client) ListScopes(ctx context.Context, filter models.ScopeFilter) (models.Paginated[models.Scope], error) {
	values := url.Values{}
	if filter.Active != nil {
		values.Set("active", strconv.FormatBool(*filter.Active))
	}
	setPositive(values, "limit", filter.Limit)
	setPositive(values, "offset", filter.Offset)

	var page models.Paginated[models.Scope]
	err := c.transport.Execute(ctx, http.MethodGet, "/api/v1/scopes"+encodeQuery(values), nil, &page)
	return page, err
}

// DeactivateScope marks a scope inactive. Checks naming the scope still
// resolve from cache until TTL expiry; the scope stops matching new grants
// immediately on the service side.
func (c *Client) DeactivateScope(ctx context.Context, identifier string) error {
	return c.transport.Execute(ctx, http.MethodDelete,
		"/api/v1/scopes/"+url.PathEscape(identifier), nil, nil)
}
