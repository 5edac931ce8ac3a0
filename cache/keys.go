package cache

import "hash/fnv"

// Fingerprint keys a compiled statement as rendered for one dialect. The
// parameter names take part because they decide which '#' are markers.
func Fingerprint(dialect, statement string, names ...string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(dialect))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(statement))
	for _, n := range names {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(n))
	}
	return h.Sum64()
}
