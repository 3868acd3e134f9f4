package catalog

import "strings"

const upperhex = "0123456789ABCDEF"

// uriReserved are the characters encodeURI leaves untouched besides alphanumerics.
const uriReserved = ";,/?:@&=+$-_.!~*'()#"

// componentReserved are the characters encodeURIComponent leaves untouched besides alphanumerics.
const componentReserved = "-_.!~*'()"

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func percentEncode(s, keep string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) || strings.IndexByte(keep, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// EscapeURL percent-encodes a url the way encodeURI does and additionally
// escapes every '#' and '?', which would otherwise end the path when the url
// is embedded in a fragment or query string.
func EscapeURL(u string) string {
	return percentEncode(u, strings.NewReplacer("#", "", "?", "").Replace(uriReserved))
}

// EscapeComponent percent-encodes s the way encodeURIComponent does.
func EscapeComponent(s string) string {
	return percentEncode(s, componentReserved)
}
