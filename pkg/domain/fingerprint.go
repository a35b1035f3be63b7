package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint identifies a build input: the same items in the same order
// with the same trait order always produce the same fingerprint.
func Fingerprint(items []Item, traits []Trait) (string, error) {
	data, err := json.Marshal(struct {
		Traits []Trait `json:"traits"`
		Items  []Item  `json:"items"`
	}{traits, items})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
