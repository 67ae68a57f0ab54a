package auth

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore implements UserStore over a bun database handle. The handle is
// owned by the caller, injected once at construction, and shared by every
// operation.
//
// The store is not usable until Connect has run: operations issued earlier
// block on the readiness gate instead of failing.
type BunStore struct {
	db      *bun.DB
	ready   chan struct{}
	once    sync.Once
	logger  Logger
	connErr error
}

var _ UserStore = (*BunStore)(nil)

// NewBunStore wraps an existing bun handle. Call Connect before or
// concurrently with issuing operations.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db:     db,
		ready:  make(chan struct{}),
		logger: defLogger{},
	}
}

func (s *BunStore) WithLogger(logger Logger) *BunStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Connect verifies the connection and establishes the users schema,
// including the unique indexes on email and username that make concurrent
// registration collisions fail atomically at insert. It then opens the
// readiness gate. Safe to call once; later calls return the first result.
func (s *BunStore) Connect(ctx context.Context) error {
	s.once.Do(func() {
		s.connErr = s.init(ctx)
		close(s.ready)
	})
	return s.connErr
}

func (s *BunStore) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "user store connection failed")
	}

	if _, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create users table")
	}

	return nil
}

func (s *BunStore) waitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		if s.connErr != nil {
			return s.connErr
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *BunStore) Find(ctx context.Context, filter Filter) ([]*User, error) {
	if err := s.waitReady(ctx); err != nil {
		return nil, err
	}

	users := []*User{}
	q := s.db.NewSelect().Model(&users)
	q = applySelectFilter(q, filter)

	if err := q.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "user store find failed")
	}

	return users, nil
}

func (s *BunStore) InsertOne(ctx context.Context, user *User) (uuid.UUID, error) {
	if err := s.waitReady(ctx); err != nil {
		return uuid.Nil, err
	}

	prepareUserDefaults(user)

	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrUserAlreadyExists
		}
		return uuid.Nil, errors.Wrap(err, errors.CategoryOperation, "user store insert failed")
	}

	return user.ID, nil
}

func (s *BunStore) UpdateOne(ctx context.Context, filter Filter, patch UserPatch) error {
	if err := s.waitReady(ctx); err != nil {
		return err
	}

	if patch.IsZero() {
		return nil
	}

	q := s.db.NewUpdate().Model((*User)(nil))
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.Username != nil {
		q = q.Set("username = ?", *patch.Username)
	}
	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
	}
	if patch.ProfilePicture != nil {
		q = q.Set("profile_picture = ?", *patch.ProfilePicture)
	}
	if patch.PasswordDigest != nil {
		q = q.Set("password_digest = ?", *patch.PasswordDigest)
	}
	q = q.Set("updated_at = ?", time.Now())
	q = applyUpdateFilter(q, filter)

	if _, err := q.Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return errors.Wrap(err, errors.CategoryOperation, "user store update failed")
	}

	return nil
}

func (s *BunStore) DeleteOne(ctx context.Context, filter Filter) (bool, error) {
	if err := s.waitReady(ctx); err != nil {
		return false, err
	}

	q := s.db.NewDelete().Model((*User)(nil))
	q = applyDeleteFilter(q, filter)

	res, err := q.Exec(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "user store delete failed")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "user store delete result unavailable")
	}

	return n > 0, nil
}

// Upsert is the two round-trip convenience from the store contract: query
// by filter, then update matches or insert a record built from the patch.
func (s *BunStore) Upsert(ctx context.Context, filter Filter, patch UserPatch) error {
	existing, err := s.Find(ctx, filter)
	if err != nil {
		return err
	}

	if len(existing) > 0 {
		return s.UpdateOne(ctx, filter, patch)
	}

	user := patch.ApplyTo(&User{})
	_, err = s.InsertOne(ctx, user)
	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}
}

func applySelectFilter(q *bun.SelectQuery, f Filter) *bun.SelectQuery {
	if f.IsZero() {
		return q
	}
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		if f.ID != uuid.Nil {
			q = q.WhereOr("?TableAlias.id = ?", f.ID)
		}
		if f.Identifier != "" {
			q = q.WhereOr("?TableAlias.email = ?", f.Identifier).
				WhereOr("?TableAlias.username = ?", f.Identifier)
		}
		if f.Email != "" {
			q = q.WhereOr("?TableAlias.email = ?", f.Email)
		}
		if f.Username != "" {
			q = q.WhereOr("?TableAlias.username = ?", f.Username)
		}
		return q
	})
}

func applyUpdateFilter(q *bun.UpdateQuery, f Filter) *bun.UpdateQuery {
	if f.IsZero() {
		return q.Where("1 = 1")
	}
	return q.WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
		if f.ID != uuid.Nil {
			q = q.WhereOr("id = ?", f.ID)
		}
		if f.Identifier != "" {
			q = q.WhereOr("email = ?", f.Identifier).
				WhereOr("username = ?", f.Identifier)
		}
		if f.Email != "" {
			q = q.WhereOr("email = ?", f.Email)
		}
		if f.Username != "" {
			q = q.WhereOr("username = ?", f.Username)
		}
		return q
	})
}

func applyDeleteFilter(q *bun.DeleteQuery, f Filter) *bun.DeleteQuery {
	if f.IsZero() {
		return q.Where("1 = 1")
	}
	return q.WhereGroup(" AND ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
		if f.ID != uuid.Nil {
			q = q.WhereOr("id = ?", f.ID)
		}
		if f.Identifier != "" {
			q = q.WhereOr("email = ?", f.Identifier).
				WhereOr("username = ?", f.Identifier)
		}
		if f.Email != "" {
			q = q.WhereOr("email = ?", f.Email)
		}
		if f.Username != "" {
			q = q.WhereOr("username = ?", f.Username)
		}
		return q
	})
}
