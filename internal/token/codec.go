// Package token generates opaque one-time tokens and their peppered
// at-rest hashes. Session tokens are NOT hashed — the store compares
// them in plaintext — so the codec is used only for verification tokens.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"time"
)

const DefaultLength = 32

type Codec struct {
	length int
	secret []byte
	algo   func() hash.Hash
}

// NewCodec builds a codec with the given token byte length, HMAC
// algorithm ("sha256" or "sha512") and secret pepper.
func NewCodec(length int, algo string, secret []byte) (*Codec, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("token codec: empty hash secret")
	}

	var h func() hash.Hash
	switch algo {
	case "sha256":
		h = sha256.New
	case "sha512":
		h = sha512.New
	default:
		return nil, fmt.Errorf("token codec: unsupported algorithm %q", algo)
	}

	return &Codec{length: length, secret: secret, algo: h}, nil
}

// GeneratePlain returns a fresh random token encoded with the URL-safe
// base64 alphabet, no padding. Safe to embed in links and cookies.
func (c *Codec) GeneratePlain() (string, error) {
	raw := make([]byte, c.length)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Hash computes the hex-encoded HMAC of plain under the codec's pepper.
// Deterministic for a given key; unforgeable without it.
func (c *Codec) Hash(plain string) string {
	mac := hmac.New(c.algo, c.secret)
	mac.Write([]byte(plain))
	return hex.EncodeToString(mac.Sum(nil))
}

// NowISO returns the current UTC instant in RFC 3339 form, the textual
// timestamp format the record store speaks. RFC 3339 UTC strings sort
// chronologically, so the store can compare them directly.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// AddMinutesISO returns the UTC instant n minutes from now in RFC 3339 form.
func AddMinutesISO(n int) string {
	return time.Now().UTC().Add(time.Duration(n) * time.Minute).Format(time.RFC3339)
}
