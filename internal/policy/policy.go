// Package policy holds the single access control decision table. Every
// boundary operation that mutates or restricts reads consults Decide
// instead of re-implementing role checks inline.
package policy

import (
	"github.com/eduverse-labs/eduverse-api/internal/models"
	appErrors "github.com/eduverse-labs/eduverse-api/pkg/errors"
)

// Action identifies an operation subject to access control.
type Action string

const (
	ActionCreateCourse        Action = "course:create"
	ActionEditCourse          Action = "course:edit"
	ActionEditOwnProfile      Action = "profile:edit"
	ActionReadPublishedCourse Action = "course:read"
)

// Subject is the identity a decision is made for. An unauthenticated
// caller is the zero value.
type Subject struct {
	ID            string
	Role          models.UserRole
	Authenticated bool
}

// SubjectFromClaims builds a Subject from decoded session claims.
func SubjectFromClaims(claims *models.JWTClaims) Subject {
	if claims == nil {
		return Subject{}
	}
	return Subject{ID: claims.UserID, Role: claims.Role, Authenticated: true}
}

// Decide evaluates the access rules in precedence order and returns nil
// on allow or a typed error on deny. The table is total: any action not
// listed falls through to deny.
func Decide(subject Subject, action Action, ownerID string) error {
	if action == ActionReadPublishedCourse {
		return nil
	}

	if !subject.Authenticated {
		return appErrors.ErrUnauthorized
	}

	switch action {
	case ActionCreateCourse:
		if subject.Role == models.RoleAdmin || subject.Role == models.RoleInstructor {
			return nil
		}
		return appErrors.Clone(appErrors.ErrForbidden, "only admins and instructors can create courses")
	case ActionEditCourse:
		if subject.Role == models.RoleAdmin || subject.ID == ownerID {
			return nil
		}
		return appErrors.Clone(appErrors.ErrForbidden, "you can only edit your own courses")
	case ActionEditOwnProfile:
		if subject.ID == ownerID {
			return nil
		}
		return appErrors.ErrForbidden
	default:
		return appErrors.ErrForbidden
	}
}
