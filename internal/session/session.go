package session

import (
	"sync"
	"time"

	"hrhub/internal/domain/auth"
)

// User is the signed-in identity as the backend reports it. Users carry a fullname,
// admins a name; both land in Name.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Snapshot struct {
	ID              string    `json:"id"`
	Kind            auth.Kind `json:"kind"`
	User            *User     `json:"user"`
	Token           string    `json:"-"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Profile         *User     `json:"profile,omitempty"`
	DeviceToken     string    `json:"deviceToken,omitempty"`
	CurrentReviewID string    `json:"currentReviewId,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt"`
	// Version increases with every change so listeners can drop stale snapshots.
	Version uint64 `json:"-"`
}

func (s Snapshot) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Scope partitions cached queries per signed-in identity.
func (s Snapshot) Scope() string {
	if s.User == nil || s.User.ID == "" {
		return "anonymous"
	}
	return string(s.Kind) + "-" + s.User.ID
}

const (
	ToastInfo    = "info"
	ToastSuccess = "success"
	ToastError   = "error"
)

type Toast struct {
	Level   string    `json:"level"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

const maxToasts = 50

// Session is the per-browser auth state. All reads are synchronous; writers notify subscribers
// after releasing the lock.
type Session struct {
	mu           sync.Mutex
	snap         Snapshot
	toasts       []Toast
	subscribers  map[int]func(Snapshot)
	nextSubID    int
	bootstrapped bool
}

// New returns a detached session that no Manager tracks or persists.
func New(id string) *Session {
	return newSession(Snapshot{ID: id})
}

func newSession(snap Snapshot) *Session {
	return &Session{snap: snap, subscribers: map[int]func(Snapshot){}}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ID
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Token
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	out := s.snap
	if s.snap.User != nil {
		u := *s.snap.User
		out.User = &u
	}
	if s.snap.Profile != nil {
		p := *s.snap.Profile
		out.Profile = &p
	}
	return out
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.IsAuthenticated
}

// Subscribe registers fn for every state change and returns a function that removes it.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) SignIn(kind auth.Kind, user User, token string, expiresAt time.Time) {
	s.update(func(snap *Snapshot) bool {
		snap.Kind = kind
		snap.User = &user
		snap.Token = token
		snap.IsAuthenticated = true
		snap.ExpiresAt = expiresAt
		snap.Profile = nil
		snap.CurrentReviewID = ""
		return true
	})
	s.mu.Lock()
	s.bootstrapped = true
	s.mu.Unlock()
}

// Expire clears user, token and authentication. Only the call that actually cleared an
// authenticated state returns true; later calls are no-ops.
func (s *Session) Expire() bool {
	return s.update(func(snap *Snapshot) bool {
		if !snap.IsAuthenticated && snap.Token == "" && snap.User == nil {
			return false
		}
		snap.User = nil
		snap.Token = ""
		snap.IsAuthenticated = false
		snap.Profile = nil
		snap.CurrentReviewID = ""
		return true
	})
}

// SetUser replaces the signed-in user. A user without an id is ignored.
func (s *Session) SetUser(user User) {
	s.update(func(snap *Snapshot) bool {
		if !snap.IsAuthenticated || user.ID == "" {
			return false
		}
		snap.User = &user
		return true
	})
}

func (s *Session) SetProfile(profile User) {
	s.update(func(snap *Snapshot) bool {
		snap.Profile = &profile
		return true
	})
}

func (s *Session) Profile() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Profile == nil {
		return User{}, false
	}
	return *s.snap.Profile, true
}

func (s *Session) SetDeviceToken(token string) {
	s.update(func(snap *Snapshot) bool {
		if snap.DeviceToken == token {
			return false
		}
		snap.DeviceToken = token
		return true
	})
}

// SetCurrentReview records the review the questionnaire step attaches to.
func (s *Session) SetCurrentReview(id string) {
	s.update(func(snap *Snapshot) bool {
		snap.CurrentReviewID = id
		return true
	})
}

func (s *Session) CurrentReview() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.CurrentReviewID, s.snap.CurrentReviewID != ""
}

func (s *Session) ClearCurrentReview() {
	s.update(func(snap *Snapshot) bool {
		if snap.CurrentReviewID == "" {
			return false
		}
		snap.CurrentReviewID = ""
		return true
	})
}

// MarkBootstrapped returns true for the first caller only.
func (s *Session) MarkBootstrapped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bootstrapped {
		return false
	}
	s.bootstrapped = true
	return true
}

func (s *Session) PushToast(level, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, Toast{Level: level, Title: title, Message: message, At: time.Now().UTC()})
	if len(s.toasts) > maxToasts {
		s.toasts = s.toasts[len(s.toasts)-maxToasts:]
	}
}

func (s *Session) pushToasts(toasts []Toast) {
	for _, t := range toasts {
		s.PushToast(t.Level, t.Title, t.Message)
	}
}

func (s *Session) DrainToasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.toasts
	s.toasts = nil
	return out
}

func (s *Session) update(mutate func(*Snapshot) bool) bool {
	s.mu.Lock()
	if !mutate(&s.snap) {
		s.mu.Unlock()
		return false
	}
	s.snap.Version++
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}
