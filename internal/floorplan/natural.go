package floorplan

import "strings"

// NaturalLess orders office IDs with digit runs compared numerically, so
// "9" < "10" and "303" < "303A" < "304". Letters compare case-insensitively.
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, restA := nextChunk(a)
		cb, restB := nextChunk(b)
		if ca != cb {
			da, db := isDigit(ca[0]), isDigit(cb[0])
			switch {
			case da && db:
				na, nb := strings.TrimLeft(ca, "0"), strings.TrimLeft(cb, "0")
				if len(na) != len(nb) {
					return len(na) < len(nb)
				}
				if na != nb {
					return na < nb
				}
			case da != db:
				return da
			default:
				la, lb := strings.ToLower(ca), strings.ToLower(cb)
				if la != lb {
					return la < lb
				}
			}
		}
		a, b = restA, restB
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func nextChunk(s string) (chunk, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
