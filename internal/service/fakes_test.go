package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/firstlabs/accounts/internal/model"
	"github.com/firstlabs/accounts/internal/notify"
	"github.com/firstlabs/accounts/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository with the same contract as the
// SQL implementation, including unique-email enforcement.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) ByID(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeSessionRepo is an in-memory SessionRepository. Attach is idempotent on
// the token, matching the unique-column upsert of the SQL implementation.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{}
}

func (r *fakeSessionRepo) Attach(session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.Token == session.Token {
			return nil
		}
	}

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.sessions = append(r.sessions, *session)
	return nil
}

func (r *fakeSessionRepo) Revoke(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.sessions {
		if s.Token == token {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAll(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}

func (r *fakeSessionRepo) Exists(userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.UserID == userID && s.Token == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSessionRepo) ByUser(userID string) ([]model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// captureNotifier records enqueued messages instead of delivering them.
type captureNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *captureNotifier) Enqueue(msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *captureNotifier) Messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Message, len(n.msgs))
	copy(out, n.msgs)
	return out
}
