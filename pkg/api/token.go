package api

import (
	"errors"
	"fmt"
	"io"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/gammonboard/pkg/board"
)

// ErrInvalidToken is returned for seat tokens that are malformed, expired or not signed
// by the server.
var ErrInvalidToken = errors.New("invalid seat token")

type (
	// TokenizerConfig describes how seat tokens are signed.
	TokenizerConfig struct {
		// KeyReader is used to generate the signing key
		KeyReader io.Reader
		// TTL is how long a token is valid from the issuing time
		TTL time.Duration
		// Now supplies the issuing time, time.Now when nil.
		Now func() time.Time
	}

	// Tokenizer issues and reads seat tokens.
	Tokenizer struct {
		method jwt.SigningMethod
		key    []byte
		ttl    time.Duration
		now    func() time.Time
	}

	// seatClaims grant a seat at a table; the table id is the subject.
	seatClaims struct {
		Color board.MovableColor `json:"color"`
		jwt.RegisteredClaims
	}
)

// NewTokenizer creates a Tokenizer with a random HS256 key.
func (cfg TokenizerConfig) NewTokenizer() (*Tokenizer, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("positive token ttl required")
	}
	key := make([]byte, 64)
	if _, err := io.ReadFull(cfg.KeyReader, key); err != nil {
		return nil, fmt.Errorf("generating tokenizer key: %w", err)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	t := Tokenizer{
		method: jwt.SigningMethodHS256,
		key:    key,
		ttl:    cfg.TTL,
		now:    now,
	}
	return &t, nil
}

// Create signs a token for the color at the table, returning it with its expiry.
func (t *Tokenizer) Create(table string, color board.MovableColor) (string, time.Time, error) {
	switch color {
	case board.MovableWhite, board.MovableBlack, board.MovableBoth:
	default:
		return "", time.Time{}, fmt.Errorf("seat color %q", color)
	}
	now := t.now()
	expires := now.Add(t.ttl)
	claims := seatClaims{
		Color: color,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   table,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(t.method, claims)
	s, err := token.SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing seat token: %w", err)
	}
	return s, expires, nil
}

// Read returns the table and color of a valid token.
func (t *Tokenizer) Read(tokenString string) (string, board.MovableColor, error) {
	var claims seatClaims
	if _, err := jwt.ParseWithClaims(tokenString, &claims, t.keyFunc); err != nil {
		return "", board.MovableNone, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, claims.Color, nil
}

// keyFunc ensures the signing method of the token is correct before returning the key.
func (t *Tokenizer) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != t.method {
		return nil, fmt.Errorf("incorrect authorization signing method")
	}
	return t.key, nil
}
