package builder

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeURI percent-encodes s with ECMAScript encodeURI semantics: letters,
// digits and -_.!~*'();/?:@&=+$,# are kept, every other byte is escaped.
// net/url has no mode with this reserved set; PathEscape and QueryEscape
// both escape the single quote.
func EncodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepURI(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func keepURI(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();/?:@&=+$,#", c) >= 0
}
