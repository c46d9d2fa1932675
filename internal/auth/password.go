package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned when a stored hash cannot be parsed.
var ErrMalformedHash = errors.New("auth: malformed password hash")

// Argon2Params tunes the argon2id hasher.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params matches the argon2 reference defaults (19 MiB, t=2, p=1).
var DefaultArgon2Params = Argon2Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher produces and checks PHC-encoded argon2id hashes. It holds no
// mutable state and is safe for concurrent use.
type Hasher struct {
	params Argon2Params
}

// NewHasher constructs a Hasher. Salts shorter than 16 bytes are raised to 16.
func NewHasher(params Argon2Params) *Hasher {
	if params.SaltLength < 16 {
		params.SaltLength = 16
	}
	if params.KeyLength == 0 {
		params.KeyLength = DefaultArgon2Params.KeyLength
	}
	return &Hasher{params: params}
}

// Hash derives a self-describing hash string with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. A well-formed hash that
// does not match returns false with a nil error; a hash that cannot be
// parsed returns ErrMalformedHash.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	ph, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	var key []byte
	switch ph.variant {
	case "argon2id":
		key = argon2.IDKey([]byte(password), ph.salt, ph.iterations, ph.memory, ph.parallelism, uint32(len(ph.key)))
	case "argon2i":
		key = argon2.Key([]byte(password), ph.salt, ph.iterations, ph.memory, ph.parallelism, uint32(len(ph.key)))
	}
	return subtle.ConstantTimeCompare(key, ph.key) == 1, nil
}

type phcHash struct {
	variant     string
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// parsePHC reads $<variant>[$v=<n>]$m=<m>,t=<t>,p=<p>$<salt>$<hash>.
func parsePHC(encoded string) (phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) == 5 {
		// version segment omitted
		parts = []string{parts[0], parts[1], fmt.Sprintf("v=%d", argon2.Version), parts[2], parts[3], parts[4]}
	}
	if len(parts) != 6 || parts[0] != "" {
		return phcHash{}, ErrMalformedHash
	}
	var ph phcHash
	ph.variant = parts[1]
	if ph.variant != "argon2id" && ph.variant != "argon2i" {
		return phcHash{}, fmt.Errorf("%w: unsupported variant %q", ErrMalformedHash, ph.variant)
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return phcHash{}, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}
	var parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &ph.memory, &ph.iterations, &parallelism); err != nil {
		return phcHash{}, fmt.Errorf("%w: params: %v", ErrMalformedHash, err)
	}
	if ph.memory == 0 || ph.iterations == 0 || parallelism == 0 || parallelism > 255 {
		return phcHash{}, fmt.Errorf("%w: params out of range", ErrMalformedHash)
	}
	ph.parallelism = uint8(parallelism)
	var err error
	if ph.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(ph.salt) == 0 {
		return phcHash{}, fmt.Errorf("%w: salt", ErrMalformedHash)
	}
	if ph.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(ph.key) == 0 {
		return phcHash{}, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	return ph, nil
}
