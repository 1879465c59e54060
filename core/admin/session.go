package admin

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/watas/core"
)

const (
	CookieName = "watas_admin"
	SessionTTL = 8 * time.Hour
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNoSecret        = errors.New("admin session secret not configured")
	ErrInvalidPassword = errors.New("Invalid password")
)

// Sessions issues & validates admin credentials of the form `<expiry unix millis>.<hex hmac-sha256(expiry)>`.
type Sessions struct {
	secret   []byte
	password string
	ttl      time.Duration
}

func NewSessions(conf core.AuthConfig) *Sessions {
	ttl := conf.AdminSessionTTL
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &Sessions{
		secret:   []byte(conf.SessionSecret()),
		password: conf.AdminPassword,
		ttl:      ttl,
	}
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

// CheckPassword compares pwd with the admin password, which may be stored as a bcrypt hash.
func (s *Sessions) CheckPassword(pwd string) error {
	if s.password == "" || pwd == "" {
		return ErrInvalidPassword
	}
	if strings.HasPrefix(s.password, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(s.password), []byte(pwd)) != nil {
			return ErrInvalidPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(s.password), []byte(pwd)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// Issue returns a fresh token and its expiry time.
func (s *Sessions) Issue() (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}
	expiry := NowFunc().Add(s.ttl)
	ms := strconv.FormatInt(expiry.UnixMilli(), 10)
	return ms + "." + s.sign(ms), time.UnixMilli(expiry.UnixMilli()), nil
}

// Validate reports whether token is well-formed, untampered & not expired.
// It is valid up to and including its expiry instant.
func (s *Sessions) Validate(token string) bool {
	if len(s.secret) == 0 || token == "" {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	ms, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	if NowFunc().UnixMilli() > ms {
		return false
	}
	// compare the encoded form: hex decoding would accept an upper-cased signature
	return hmac.Equal([]byte(parts[1]), []byte(s.sign(parts[0])))
}

func (s *Sessions) sign(expiry string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(expiry))
	return hex.EncodeToString(h.Sum(nil))
}

// HashPassword returns the bcrypt hash to store in ADMIN_PASSWORD.
func HashPassword(pwd string) (string, error) {
	if pwd == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
