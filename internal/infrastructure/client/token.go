package client

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// TokenSigner produces the request signature from the root-level scalar
// parameters of a request. The algorithm is a contract with the acquiring
// API and is pluggable so terminals with custom signing can swap it out.
type TokenSigner interface {
	Sign(params map[string]string) string
}

// PasswordSigner is the default signing strategy: the terminal password is
// injected as a parameter, keys are sorted lexicographically, the values are
// concatenated and hashed with SHA-256, hex encoded.
type PasswordSigner struct {
	password string
}

func NewPasswordSigner(password string) *PasswordSigner {
	return &PasswordSigner{password: password}
}

func (s *PasswordSigner) Sign(params map[string]string) string {
	merged := make(map[string]string, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["Password"] = s.password

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(merged[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
