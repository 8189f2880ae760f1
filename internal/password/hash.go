// Package password produces the salted digests stored for the administrator
// and replication credentials in the generated configuration.
package password

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1" // #nosec G505 -- SSHA is the directory server's default storage scheme
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Scheme names a password storage scheme as it appears in the {SCHEME} prefix.
type Scheme string

// Supported schemes.
const (
	SSHA         Scheme = "SSHA"
	SSHA256      Scheme = "SSHA256"
	SSHA512      Scheme = "SSHA512"
	PBKDF2SHA256 Scheme = "PBKDF2_SHA256"
	Clear        Scheme = "CLEAR"
)

// DefaultScheme is used when no scheme is configured.
const DefaultScheme = SSHA

const (
	saltLength       = 8
	pbkdf2SaltLength = 64
	pbkdf2KeyLength  = 256
	pbkdf2Iterations = 30000
)

// Hash returns the stored form of plaintext, e.g. "{SSHA}base64...".
func Hash(plaintext string, scheme Scheme) (string, error) {
	n := saltLength
	if scheme == PBKDF2SHA256 {
		n = pbkdf2SaltLength
	}
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return HashWithSalt(plaintext, scheme, salt)
}

// HashWithSalt is Hash with a caller supplied salt.
func HashWithSalt(plaintext string, scheme Scheme, salt []byte) (string, error) {
	if scheme == "" {
		scheme = DefaultScheme
	}
	var encoded []byte
	switch scheme {
	case SSHA:
		encoded = saltedDigest(sha1.New, plaintext, salt)
	case SSHA256:
		encoded = saltedDigest(sha256.New, plaintext, salt)
	case SSHA512:
		encoded = saltedDigest(sha512.New, plaintext, salt)
	case PBKDF2SHA256:
		encoded = pbkdf2Digest(plaintext, salt, pbkdf2Iterations)
	case Clear:
		return "{" + string(Clear) + "}" + plaintext, nil
	default:
		return "", fmt.Errorf("unsupported password storage scheme %q", scheme)
	}
	return "{" + string(scheme) + "}" + base64.StdEncoding.EncodeToString(encoded), nil
}

// Verify reports whether stored matches plaintext.
func Verify(stored, plaintext string) bool {
	scheme, payload, ok := split(stored)
	if !ok {
		return false
	}
	if scheme == Clear {
		return payload == plaintext
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return false
	}
	switch scheme {
	case SSHA, SSHA256, SSHA512:
		var size int
		switch scheme {
		case SSHA:
			size = sha1.Size
		case SSHA256:
			size = sha256.Size
		default:
			size = sha512.Size
		}
		if len(raw) <= size {
			return false
		}
		salt := raw[size:]
		h := map[Scheme]func() hash.Hash{SSHA: sha1.New, SSHA256: sha256.New, SSHA512: sha512.New}[scheme]
		return bytes.Equal(saltedDigest(h, plaintext, salt), raw)
	case PBKDF2SHA256:
		if len(raw) != 4+pbkdf2SaltLength+pbkdf2KeyLength {
			return false
		}
		iterations := int(binary.BigEndian.Uint32(raw[:4]))
		salt := raw[4 : 4+pbkdf2SaltLength]
		return bytes.Equal(pbkdf2Digest(plaintext, salt, iterations), raw)
	}
	return false
}

// IsHashed reports whether s already carries a known {SCHEME} prefix.
func IsHashed(s string) bool {
	_, _, ok := split(s)
	return ok
}

// ParseScheme validates a configured scheme name.
func ParseScheme(name string) (Scheme, error) {
	if name == "" {
		return DefaultScheme, nil
	}
	s := Scheme(strings.ToUpper(name))
	switch s {
	case SSHA, SSHA256, SSHA512, PBKDF2SHA256, Clear:
		return s, nil
	}
	return "", fmt.Errorf("unsupported password storage scheme %q", name)
}

func split(stored string) (Scheme, string, bool) {
	if !strings.HasPrefix(stored, "{") {
		return "", "", false
	}
	end := strings.IndexByte(stored, '}')
	if end < 0 {
		return "", "", false
	}
	scheme, err := ParseScheme(stored[1:end])
	if err != nil {
		return "", "", false
	}
	return scheme, stored[end+1:], true
}

// saltedDigest returns digest(plaintext || salt) || salt.
func saltedDigest(newHash func() hash.Hash, plaintext string, salt []byte) []byte {
	h := newHash()
	h.Write([]byte(plaintext))
	h.Write(salt)
	return append(h.Sum(nil), salt...)
}

// pbkdf2Digest returns iterations || salt || key, the layout the server expects.
func pbkdf2Digest(plaintext string, salt []byte, iterations int) []byte {
	key := pbkdf2.Key([]byte(plaintext), salt, iterations, pbkdf2KeyLength, sha256.New)
	out := make([]byte, 4, 4+len(salt)+len(key))
	binary.BigEndian.PutUint32(out, uint32(iterations)) // #nosec G115
	out = append(out, salt...)
	return append(out, key...)
}
