/*
file: rudis/internal/store/glob.go
*/
package store

// Match reports whether key satisfies the glob pattern, byte-wise, using
// the following grammar:
//
//	*      matches any (possibly empty) run of bytes
//	?      matches exactly one byte
//	[...]  matches one byte from the bracketed set; a leading ^ negates the
//	       set; a literal '-' between two bytes forms an inclusive range
//	\x     escapes x, matching it literally (including inside a class)
//
// This is a hand-rolled matcher rather than a pack library such as
// github.com/gobwas/glob: gobwas/glob's negation (`[!...]`) and escaping
// conventions don't line up with the grammar above closely enough to
// satisfy it exactly, and Redis-compatible KEYS matching is exactly this
// grammar, not a generic glob dialect. path/filepath.Match is also
// unsuitable: it special-cases the path separator byte, and keys in this
// store are arbitrary binary strings with no reserved separator.
func Match(pattern, key string) bool {
	return matchFrom(pattern, key)
}

func matchFrom(pattern, key string) bool {
	pi, ki := 0, 0
	// Backtracking state for the most recent '*': if a later byte fails to
	// match, retry by having that '*' consume one more byte of key.
	starPi, starKi := -1, -1

	for ki < len(key) {
		if pi < len(pattern) {
			switch pattern[pi] {
			case '*':
				starPi, starKi = pi, ki
				pi++
				continue
			case '?':
				pi++
				ki++
				continue
			case '[':
				end, matched := matchClass(pattern, pi, key[ki])
				if end > 0 && matched {
					pi = end
					ki++
					continue
				}
				// no match at this key position, whether because the
				// class excluded this byte or the class was malformed
				// (unterminated); either way, backtrack.
			case '\\':
				if pi+1 < len(pattern) && pattern[pi+1] == key[ki] {
					pi += 2
					ki++
					continue
				}
				goto backtrack
			default:
				if pattern[pi] == key[ki] {
					pi++
					ki++
					continue
				}
			}
		}

	backtrack:
		if starPi >= 0 {
			starKi++
			pi, ki = starPi+1, starKi
			continue
		}
		return false
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

// matchClass parses a "[...]" class starting at pattern[start] == '['. It
// returns the index just past the closing ']' and whether b matched the
// class. If the class is malformed (no closing ']'), end is 0 and matched
// is false; matchFrom treats that as a mismatch at this key position.
func matchClass(pattern string, start int, b byte) (end int, matched bool) {
	i := start + 1
	negate := false
	if i < len(pattern) && pattern[i] == '^' {
		negate = true
		i++
	}

	found := false
	first := true
	for i < len(pattern) && (pattern[i] != ']' || first) {
		first = false
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			i++
			c = pattern[i]
		}

		if i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']' {
			lo, hi := c, pattern[i+2]
			hc := hi
			if hi == '\\' && i+3 < len(pattern) {
				hc = pattern[i+3]
				i++
			}
			if lo <= b && b <= hc {
				found = true
			}
			i += 3
			continue
		}

		if c == b {
			found = true
		}
		i++
	}

	if i >= len(pattern) {
		return 0, false // unterminated class
	}
	// i is at the closing ']'
	return i + 1, found != negate
}
