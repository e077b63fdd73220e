// Package anchoridl reads Anchor IDL JSON files into schema documents.
//
// Both the legacy layout (camelCase names, `publicKey`, `{"defined": "X"}`,
// `metadata.address`, no discriminators) and the 0.30 layout (`pubkey`,
// `{"defined": {"name": "X"}}`, explicit `discriminator` arrays, top-level
// `address`) are accepted. Instructions without an explicit discriminator get
// the Anchor default: the first 8 bytes of sha256("global:" + snake_name).
package anchoridl
