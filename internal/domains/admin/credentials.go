package admin

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore xác thực admin đăng nhập back-office.
//
// Authenticate trả về canonical username khi credentials hợp lệ. Username
// matching là case-insensitive và bỏ leading/trailing whitespace; password
// được so sánh nguyên văn, kể cả whitespace.
//
// Contains check username còn thuộc roster không. Session tokens là
// stateless nên mỗi request phải re-check: admin đã bị gỡ khỏi roster thì
// token cũ của họ không còn giá trị.
type CredentialStore interface {
	Authenticate(username, password string) (string, bool)
	Contains(username string) bool
}

// StaticStore holds a fixed admin roster in memory. Secrets may be plain
// text or bcrypt hashes; hashes are recognized by their "$2" prefix so both
// forms can coexist during a migration.
type StaticStore struct {
	secrets map[string]staticSecret
}

type staticSecret struct {
	canonical string
	secret    string
}

// NewStaticStore builds a store from canonical-username -> secret pairs.
func NewStaticStore(users map[string]string) *StaticStore {
	s := &StaticStore{secrets: make(map[string]staticSecret, len(users))}
	for name, secret := range users {
		s.secrets[strings.ToLower(strings.TrimSpace(name))] = staticSecret{
			canonical: name,
			secret:    secret,
		}
	}
	return s
}

// DefaultStore returns the built-in back-office roster, used when no roster
// is configured.
func DefaultStore() *StaticStore {
	return NewStaticStore(map[string]string{
		"Kaleem":   "theagatecity@ks",
		"Shahrukh": "theagatecity@sk",
	})
}

// ParseRoster parses an "alice:secret,bob:secret" roster string từ config.
// Malformed pairs are skipped.
func ParseRoster(raw string) map[string]string {
	users := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, secret, found := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" || secret == "" {
			continue
		}
		users[name] = secret
	}
	return users
}

// Authenticate implements CredentialStore.
func (s *StaticStore) Authenticate(username, password string) (string, bool) {
	entry, ok := s.secrets[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return "", false
	}

	if strings.HasPrefix(entry.secret, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(entry.secret), []byte(password)) != nil {
			return "", false
		}
		return entry.canonical, true
	}

	// Plain secrets compare exactly, no trimming. Một password có trailing
	// space là password khác.
	if entry.secret != password {
		return "", false
	}
	return entry.canonical, true
}

// Contains reports whether username (case-insensitive, trimmed) is in the roster.
func (s *StaticStore) Contains(username string) bool {
	_, ok := s.secrets[strings.ToLower(strings.TrimSpace(username))]
	return ok
}
