package bot

import "regexp"

var ipv4Shape = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// LooksLikeIPv4 checks that text is a dotted quad. It does not check
// that octets are in 0..255 range: providers will complain about such
// addresses anyway.
func LooksLikeIPv4(text string) bool {
	return ipv4Shape.MatchString(text)
}
