package generator

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/gnana997/uigen/pkg/spec"
)

// Fingerprint returns the blake3 hash of the canonical JSON form of input,
// salted with the engine identifier so that results from different
// registries never collide. Ordered objects keep their key order, since
// prop order changes the emitted code; plain maps are sorted.
func Fingerprint(engine string, input any) (string, error) {
	canonical, err := spec.CloneValue(input)
	if err != nil {
		return "", fmt.Errorf("canonicalize input: %w", err)
	}
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("canonicalize input: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(append([]byte(engine+"\x00"), data...)); err != nil {
		return "", fmt.Errorf("hash input: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
