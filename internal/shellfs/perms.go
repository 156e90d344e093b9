package shellfs

// Permission bits as they appear in each octal digit of a mode string.
const (
	permExecute = 0x1
	permWrite   = 0x2
	permRead    = 0x4
)

// togglePerm flips bit in a 3-digit octal mode string and returns the new
// digits. Position 0 is the owner, 1 the group, 2 everybody else. A "set"
// request ORs the bit into the owner digit and, unless ownerOnly, into the
// other two; every digit the request does not set gets the bit cleared.
// Anything other than an exactly 3-character mode string fails.
func togglePerm(mode string, set, ownerOnly bool, bit int) (string, bool) {
	if len(mode) != 3 {
		return "", false
	}
	digits := []byte(mode)
	for i := 0; i < 3; i++ {
		perm := int(digits[i] - '0')
		if set && (!ownerOnly || i == 0) {
			perm |= bit
		} else {
			perm &^= bit
		}
		digits[i] = byte(perm + '0')
	}
	return string(digits), true
}
