package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// DemoHash returns the content-defined short id for an uploaded demo: the
// first 12 hex characters of the file's sha256, returned alongside the
// parsed summary so a client can look it up again later.
func DemoHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:12], nil
}
