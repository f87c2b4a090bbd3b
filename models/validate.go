package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/turtacn/permsdk/pkg/errors"
)

var (
	subjectPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+:[a-zA-Z0-9_@.\-]+$`)
	scopePattern   = regexp.MustCompile(`^[a-z0-9_.-]+$`)
	actionPattern  = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// ValidateSubject checks the "type:id" subject identifier format.
func ValidateSubject(identifier string) error {
	if identifier == "" {
		return errors.ErrValidation("subject identifier cannot be empty", "subject")
	}
	if len(identifier) < 3 {
		return errors.ErrValidation("subject identifier must be at least 3 characters long", "subject")
	}
	if !strings.Contains(identifier, ":") {
		return errors.ErrValidation(
			fmt.Sprintf("subject identifier must contain ':' separator: %q", identifier), "subject")
	}
	if !subjectPattern.MatchString(identifier) {
		return errors.ErrValidation(
			fmt.Sprintf("invalid subject identifier format: %q, expected 'type:id' (e.g. 'user:123')", identifier),
			"subject")
	}
	return nil
}

// ValidateScope checks the lowercase dotted scope identifier format.
func ValidateScope(identifier string) error {
	if identifier == "" {
		return errors.ErrValidation("scope identifier cannot be empty", "scope")
	}
	if !scopePattern.MatchString(identifier) {
		return errors.ErrValidation(
			fmt.Sprintf("invalid scope identifier format: %q, scope must be lowercase letters, numbers, dots, hyphens, underscores", identifier),
			"scope")
	}
	return nil
}

// ValidateAction checks the lowercase action format.
func ValidateAction(action string) error {
	if action == "" {
		return errors.ErrValidation("action cannot be empty", "action")
	}
	if !actionPattern.MatchString(action) {
		return errors.ErrValidation(
			fmt.Sprintf("invalid action format: %q, action must be lowercase letters, numbers, hyphens, underscores", action),
			"action")
	}
	return nil
}

// ValidateCheckRequest validates every field of a check request.
func ValidateCheckRequest(r *CheckRequest) error {
	if len(r.Subjects) == 0 {
		return errors.ErrValidation("at least one subject is required", "subjects")
	}
	for _, s := range r.Subjects {
		if err := ValidateSubject(s); err != nil {
			return err
		}
	}
	if err := ValidateScope(r.Scope); err != nil {
		return err
	}
	return ValidateAction(r.Action)
}
