package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"

	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
)

const pgUniqueViolation = "23505"

// translateUniqueViolation maps a Postgres unique constraint violation to
// the matching typed conflict. Returns nil when err is not a unique
// violation so callers can fall back to generic handling.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pgUniqueViolation {
		return nil
	}

	switch {
	case strings.Contains(pqErr.Constraint, "slug"):
		return appErrors.ErrDuplicateSlug
	case strings.Contains(pqErr.Constraint, "email"):
		return appErrors.ErrUserExists
	}
	return appErrors.ErrConflict
}
