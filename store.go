package auth

import (
	"context"

	"github.com/google/uuid"
)

// Filter selects user records. Populated fields combine disjunctively:
// a record matches when any of them does. ID matches the primary key,
// Identifier matches email or username interchangeably. A zero Filter
// matches every record.
type Filter struct {
	ID         uuid.UUID
	Identifier string
	Email      string
	Username   string
}

// IsZero reports whether the filter matches unconditionally.
func (f Filter) IsZero() bool {
	return f.ID == uuid.Nil && f.Identifier == "" && f.Email == "" && f.Username == ""
}

// Matches applies the filter to a record in memory. Store drivers that can
// push the predicate down need not use it.
func (f Filter) Matches(u *User) bool {
	if u == nil {
		return false
	}
	if f.IsZero() {
		return true
	}
	if f.ID != uuid.Nil && u.ID == f.ID {
		return true
	}
	if f.Identifier != "" && (u.Email == f.Identifier || u.Username == f.Identifier) {
		return true
	}
	if f.Email != "" && u.Email == f.Email {
		return true
	}
	if f.Username != "" && u.Username == f.Username {
		return true
	}
	return false
}

// ByID returns a filter matching a single record by primary key.
func ByID(id uuid.UUID) Filter {
	return Filter{ID: id}
}

// ByIdentifier returns a filter matching email or username.
func ByIdentifier(identifier string) Filter {
	return Filter{Identifier: identifier}
}

// UserStore is the capability contract the Manager consumes. Implementations
// are supplied externally; BunStore is the driver shipped with this package.
type UserStore interface {
	// Find returns every record matching the filter. The slice is empty,
	// never nil, when nothing matches.
	Find(ctx context.Context, filter Filter) ([]*User, error)

	// InsertOne persists a new record and returns its assigned id. A
	// uniqueness collision on email or username fails with
	// ErrUserAlreadyExists.
	InsertOne(ctx context.Context, user *User) (uuid.UUID, error)

	// UpdateOne applies the patch to matching records. Reapplying the same
	// patch is idempotent.
	UpdateOne(ctx context.Context, filter Filter, patch UserPatch) error

	// DeleteOne removes matching records, reporting true when at least one
	// was removed.
	DeleteOne(ctx context.Context, filter Filter) (bool, error)

	// Upsert queries by filter and updates matches with the patch, or
	// inserts a new record built from it. Two round trips; not atomic
	// against concurrent writers.
	Upsert(ctx context.Context, filter Filter, patch UserPatch) error
}
