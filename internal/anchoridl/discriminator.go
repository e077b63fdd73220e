package anchoridl

import (
	"crypto/sha256"
	"strings"
	"unicode"
)

// Discriminator returns the default Anchor instruction discriminator for an
// instruction name in either camelCase or snake_case.
func Discriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + SnakeCase(name)))
	out := make([]byte, 8)
	copy(out, sum[:8])
	return out
}

// SnakeCase converts "sharedAccountsRoute" to "shared_accounts_route".
// Names already in snake_case are returned unchanged.
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
