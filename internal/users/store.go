package users

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// User is a single record held by the Store.
type User struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Tags  []string `json:"tags,omitempty"`
}

func (u User) clone() User {
	u.Tags = slices.Clone(u.Tags)
	return u
}

// ChangeKind identifies what a mutation did to a record.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeFunc observes a committed mutation. It runs while the store's
// write lock is held, so calls arrive in commit order; it must not block
// or call back into the store.
type ChangeFunc func(kind ChangeKind, u User)

// Store is a thread-safe, ordered, in-memory user store. Records keep
// their insertion order and ids are never reused, even after a delete.
// All public methods are safe for concurrent use and return copies.
type Store struct {
	mu     sync.RWMutex
	users  []User
	nextID int
	hooks  []ChangeFunc
}

// NewStore creates an empty store whose first id is 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// NewSeededStore creates a store pre-populated with the demo records
// Alice and Bob (ids 1 and 2).
func NewSeededStore() *Store {
	s := NewStore()
	s.Insert("Alice", "alice@example.com", nil)
	s.Insert("Bob", "bob@example.com", []string{"tags", "active", "tester"})
	return s
}

// OnChange registers fn to be called after every successful Insert,
// Replace and Delete.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// notify must be called with mu held for writing.
func (s *Store) notify(kind ChangeKind, u User) {
	for _, fn := range s.hooks {
		fn(kind, u.clone())
	}
}

// List returns every record in insertion order.
func (s *Store) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.clone())
	}
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return User{}, false
	}
	return s.users[i].clone(), true
}

// Insert appends a new record and assigns it the next id.
func (s *Store) Insert(name, email string, tags []string) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{
		ID:    s.nextID,
		Name:  name,
		Email: email,
		Tags:  slices.Clone(tags),
	}
	s.nextID++
	s.users = append(s.users, u)
	s.notify(ChangeCreated, u)
	return u.clone()
}

// Replace rebuilds the record with the given id from id, name and email.
// An empty name or email keeps the current value. Tags are not carried
// over to the replacement record.
func (s *Store) Replace(id int, name, email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return User{}, false
	}
	cur := s.users[i]
	if name == "" {
		name = cur.Name
	}
	if email == "" {
		email = cur.Email
	}
	s.users[i] = User{ID: id, Name: name, Email: email}
	s.notify(ChangeUpdated, s.users[i])
	return s.users[i].clone(), true
}

// Delete removes the record with the given id and returns it.
func (s *Store) Delete(id int) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return User{}, false
	}
	removed := s.users[i]
	s.users = slices.Delete(s.users, i, i+1)
	s.notify(ChangeDeleted, removed)
	return removed, true
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.users, func(u User) bool { return u.ID == id })
}

// ParseID converts a path or message id into a record id. It accepts any
// integral number, including forms such as " 2 ", "2.0", "2e0" and the
// prefixed integers "0x2", "0o2" and "0b10". Anything else reports false
// and so can never match a record.
func ParseID(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil || n > math.MaxInt32 {
				return 0, false
			}
			return int(n), true
		}
	}
	// Signed or hex-float forms like "-0x1" or "0x1p0" are not ids.
	if strings.ContainsAny(s, "xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return IDFromFloat(f)
}

// IDFromFloat reports whether f is an integral value usable as an id.
func IDFromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
