// Package catalogs provides the registries bundled with the binary.
package catalogs

import _ "embed"

// ComponentsJSON is the bundled HeroUI component capability registry.
//
//go:embed heroui/components.json
var ComponentsJSON []byte

// TokensJSON is the bundled HeroUI design token registry.
//
//go:embed heroui/tokens.json
var TokensJSON []byte
