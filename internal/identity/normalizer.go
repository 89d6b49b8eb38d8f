// Package identity canonicalizes raw customer-identifier strings into the
// numeric keys used to join campaign sends against the master ledger.
//
// Upstream send jobs record identifiers however the source system emitted
// them: with punctuation, whitespace, leading zeros. The ledger keys cases
// by plain integers, so everything funnels through NormalizeAll before any
// lookup.
package identity

import (
	"strconv"
	"strings"
)

// KeySet maps a canonical numeric key to the ordered set of raw string
// variants that produced it within one aggregation pass. It is transient;
// nothing persists it.
type KeySet map[int64][]string

// Keys returns the canonical keys as a slice, in unspecified order.
func (ks KeySet) Keys() []int64 {
	out := make([]int64, 0, len(ks))
	for k := range ks {
		out = append(out, k)
	}
	return out
}

// Merge unions other into ks, preserving first-seen variant order per key.
func (ks KeySet) Merge(other KeySet) {
	for key, variants := range other {
		for _, v := range variants {
			ks.add(key, v)
		}
	}
}

func (ks KeySet) add(key int64, raw string) {
	for _, existing := range ks[key] {
		if existing == raw {
			return
		}
	}
	ks[key] = append(ks[key], raw)
}

// Normalize canonicalizes a single raw identifier: every non-digit rune is
// stripped and the remaining digits parse as a base-10 integer. The second
// return is false when the input holds no usable digits.
func Normalize(raw string) (int64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		// More digits than an int64 holds; cannot match any ledger key.
		return 0, false
	}
	return n, true
}

// NormalizeAll canonicalizes a batch of raw identifiers. Malformed entries
// (no digits, overflow) are dropped silently: they cannot be matched against
// the ledger, and a shrunken result set is the only signal callers get.
// Duplicate raws and leading-zero variants collapse onto one key, each key
// remembering every distinct raw string that produced it in first-seen order.
func NormalizeAll(raws []string) KeySet {
	ks := make(KeySet, len(raws))
	for _, raw := range raws {
		key, ok := Normalize(raw)
		if !ok {
			continue
		}
		ks.add(key, raw)
	}
	return ks
}
