package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/permsdk/models"
	"github.com/turtacn/permsdk/pkg/errors"
)

func TestValidateSubject(t *testing.T) {
	testCases := []struct {
		name       string
		identifier string
		wantErr    bool
	}{
		{"User", "user:123", false},
		{"Role", "role:editor", false},
		{"Email", "user:alice@example.com", false},
		{"Hyphenated", "service-account:ci-runner", false},
		{"Empty", "", true},
		{"TooShort", "a:", true},
		{"NoSeparator", "user123", true},
		{"SpaceInID", "user:alice smith", true},
		{"SlashInID", "user:a/b", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := models.ValidateSubject(tc.identifier)
			if tc.wantErr {
				assert.True(t, errors.IsValidation(err), "expected validation error for %q", tc.identifier)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScope(t *testing.T) {
	assert.NoError(t, models.ValidateScope("documents.management"))
	assert.NoError(t, models.ValidateScope("api"))
	assert.True(t, errors.IsValidation(models.ValidateScope("")))
	assert.True(t, errors.IsValidation(models.ValidateScope("Documents")))
	assert.True(t, errors.IsValidation(models.ValidateScope("docs/admin")))
}

func TestValidateAction(t *testing.T) {
	assert.NoError(t, models.ValidateAction("read"))
	assert.NoError(t, models.ValidateAction("bulk_export"))
	assert.True(t, errors.IsValidation(models.ValidateAction("")))
	assert.True(t, errors.IsValidation(models.ValidateAction("Read")))
	assert.True(t, errors.IsValidation(models.ValidateAction("read.all")))
}

func TestValidateCheckRequest(t *testing.T) {
	valid := models.CheckRequest{Subjects: []string{"user:1"}, Scope: "documents", Action: "read"}
	assert.NoError(t, models.ValidateCheckRequest(&valid))

	empty := models.CheckRequest{Scope: "documents", Action: "read"}
	assert.True(t, errors.IsValidation(models.ValidateCheckRequest(&empty)))

	badSubject := models.CheckRequest{Subjects: []string{"user:1", "nope"}, Scope: "documents", Action: "read"}
	assert.True(t, errors.IsValidation(models.ValidateCheckRequest(&badSubject)))
}

func TestCheckRequestNormalize(t *testing.T) {
	r := models.CheckRequest{Subjects: []string{"user:1"}, Scope: "Documents.Management", Action: "READ"}
	r.Normalize()
	assert.Equal(t, "documents.management", r.Scope)
	assert.Equal(t, "read", r.Action)
}

func TestPaginated(t *testing.T) {
	page := models.Paginated[int]{Total: 10, Limit: 4, Offset: 0, Items: []int{1, 2, 3, 4}}
	assert.True(t, page.HasMore())
	assert.Equal(t, 4, page.NextOffset())

	last := models.Paginated[int]{Total: 10, Limit: 4, Offset: 8, Items: []int{9, 10}}
	assert.False(t, last.HasMore())
	assert.Equal(t, -1, last.NextOffset())
}
