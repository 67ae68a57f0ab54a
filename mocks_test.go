package auth_test

import (
	"context"
	"sync"

	"github.com/elarakit/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory UserStore used to exercise the full credential
// lifecycle without a database.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*auth.User
}

var _ auth.UserStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{users: map[uuid.UUID]*auth.User{}}
}

func (s *memStore) Find(ctx context.Context, filter auth.Filter) ([]*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*auth.User{}
	for _, u := range s.users {
		if filter.Matches(u) {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memStore) InsertOne(ctx context.Context, user *auth.User) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return uuid.Nil, auth.ErrUserAlreadyExists
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	s.users[user.ID] = &clone
	return user.ID, nil
}

func (s *memStore) UpdateOne(ctx context.Context, filter auth.Filter, patch auth.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if filter.Matches(u) {
			s.users[id] = patch.ApplyTo(u)
		}
	}
	return nil
}

func (s *memStore) DeleteOne(ctx context.Context, filter auth.Filter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if filter.Matches(u) {
			delete(s.users, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Upsert(ctx context.Context, filter auth.Filter, patch auth.UserPatch) error {
	found, _ := s.Find(ctx, filter)
	if len(found) > 0 {
		return s.UpdateOne(ctx, filter, patch)
	}
	_, err := s.InsertOne(ctx, patch.ApplyTo(&auth.User{}))
	return err
}

// MockUserStore implements auth.UserStore for error-path tests.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Find(ctx context.Context, filter auth.Filter) ([]*auth.User, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*auth.User)
	return users, args.Error(1)
}

func (m *MockUserStore) InsertOne(ctx context.Context, user *auth.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserStore) UpdateOne(ctx context.Context, filter auth.Filter, patch auth.UserPatch) error {
	args := m.Called(ctx, filter, patch)
	return args.Error(0)
}

func (m *MockUserStore) DeleteOne(ctx context.Context, filter auth.Filter) (bool, error) {
	args := m.Called(ctx, filter)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Upsert(ctx context.Context, filter auth.Filter, patch auth.UserPatch) error {
	args := m.Called(ctx, filter, patch)
	return args.Error(0)
}

func testOptions() auth.Options {
	return auth.Options{
		Domain: "example.com",
		JWT: auth.JWTOptions{
			Secret: "test-signing-key",
		},
	}
}
