// Package identifier generates prefixed random identifiers for orders and
// payments (e.g. "order_8fK2xQp91LmN4sTa").
package identifier

import "math/rand/v2"

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// Length is the number of random characters appended to the prefix.
	Length = 16
)

// Generate returns prefix followed by 16 characters drawn uniformly from the
// 62-symbol alphanumeric alphabet. The output is not cryptographically
// secure; collisions are astronomically unlikely but callers must still
// enforce uniqueness at insert time and regenerate on conflict.
func Generate(prefix string) string {
	buf := make([]byte, len(prefix)+Length)
	copy(buf, prefix)
	for i := 0; i < Length; i++ {
		buf[len(prefix)+i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(buf)
}
