package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore checks a username/password pair.
type CredentialStore interface {
	Verify(ctx context.Context, username, password string) (*Identity, error)
}

// User is a credential entry before hashing.
type User struct {
	Username string
	Password string
	Roles    []string
}

type storedUser struct {
	passwordHash string
	roles        []string
}

// InMemoryCredentialStore is loaded once at startup and read-only afterwards.
type InMemoryCredentialStore struct {
	users map[string]storedUser
	// dummyHash keeps unknown-user checks as slow as wrong-password checks.
	dummyHash string
}

// NewInMemoryCredentialStore hashes every password with bcrypt.
func NewInMemoryCredentialStore(users []User) (*InMemoryCredentialStore, error) {
	return newInMemoryCredentialStore(users, bcrypt.DefaultCost)
}

// NewInMemoryCredentialStoreWithCost hashes with the given bcrypt cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewInMemoryCredentialStoreWithCost(users []User, cost int) (*InMemoryCredentialStore, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return newInMemoryCredentialStore(users, cost)
}

func newInMemoryCredentialStore(users []User, cost int) (*InMemoryCredentialStore, error) {
	s := &InMemoryCredentialStore{users: make(map[string]storedUser, len(users))}
	for _, u := range users {
		if u.Username == "" {
			return nil, fmt.Errorf("user with empty username")
		}
		if _, dup := s.users[u.Username]; dup {
			return nil, fmt.Errorf("duplicate user %q", u.Username)
		}
		hash, err := hashPassword(u.Password, cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %q: %w", u.Username, err)
		}
		s.users[u.Username] = storedUser{passwordHash: hash, roles: append([]string(nil), u.Roles...)}
	}
	dummy, err := hashPassword("not-a-real-password", cost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = dummy
	return s, nil
}

func (s *InMemoryCredentialStore) Verify(_ context.Context, username, password string) (*Identity, error) {
	u, ok := s.users[username]
	if !ok {
		checkPassword(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(password, u.passwordHash) {
		return nil, ErrInvalidCredentials
	}
	return &Identity{Username: username, Roles: append([]string(nil), u.roles...)}, nil
}

func hashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// DemoUsers are the accounts the service ships with for local use.
func DemoUsers() []User {
	return []User{
		{Username: "christian", Password: "abc123", Roles: []string{RoleCardOwner}},
		{Username: "hanks-owns-no-cards", Password: "hankspassword", Roles: []string{"NON-OWNER"}},
		{Username: "karl", Password: "karlpassword", Roles: []string{RoleCardOwner}},
	}
}

// ParseUsers reads "name:password:ROLE|ROLE,name:password:ROLE".
func ParseUsers(list string) ([]User, error) {
	var users []User
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed user entry %q", entry)
		}
		var roles []string
		for _, r := range strings.Split(parts[2], "|") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}
		users = append(users, User{Username: parts[0], Password: parts[1], Roles: roles})
	}
	return users, nil
}
