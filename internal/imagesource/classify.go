package imagesource

import (
	"net"
	"strconv"
	"strings"
)

// Kind tells where the bytes of an image source live.
type Kind int

const (
	// KindLocal is a filesystem path. Paths are not validated during classification.
	KindLocal Kind = iota
	// KindRemote is an http or https URL.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindRemote:
		return "remote"
	default:
		return "local"
	}
}

// Classify decides whether source is a remote URL or a local path. It is total
// and performs no I/O: every string that is not an acceptable http(s) URL is
// treated as a local path.
//
// A string is remote when all of the following hold:
//   - it contains no whitespace or control characters;
//   - the scheme is http or https (any case);
//   - the host is "localhost", a dotted-quad IPv4 address, a bracketed IPv6
//     literal, or a DNS name of at least two labels whose last label is
//     alphabetic and 2-63 characters long (one trailing dot allowed);
//   - the optional port is in 1-65535;
//   - there is no userinfo;
//   - whatever follows the authority starts with '/', '?' or '#'.
func Classify(source string) Kind {
	if isRemote(source) {
		return KindRemote
	}
	return KindLocal
}

func isRemote(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] == 0x7f {
			return false
		}
	}

	rest, ok := trimScheme(s)
	if !ok {
		return false
	}

	authority := rest
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		authority = rest[:i]
	}
	if authority == "" || strings.Contains(authority, "@") {
		return false
	}

	host, port, ok := splitAuthority(authority)
	if !ok {
		return false
	}
	if port != "" && !validPort(port) {
		return false
	}
	return validHost(host)
}

func trimScheme(s string) (string, bool) {
	for _, scheme := range []string{"http://", "https://"} {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			return s[len(scheme):], true
		}
	}
	return "", false
}

// splitAuthority separates host and port. Bracketed hosts are returned with
// their brackets so validHost can tell them apart.
func splitAuthority(authority string) (string, string, bool) {
	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return "", "", false
		}
		bracketed, tail := authority[:end+1], authority[end+1:]
		switch {
		case tail == "":
			return bracketed, "", true
		case strings.HasPrefix(tail, ":"):
			return bracketed, tail[1:], tail != ":"
		default:
			return "", "", false
		}
	}

	if i := strings.LastIndexByte(authority, ':'); i >= 0 {
		if i == len(authority)-1 {
			return "", "", false
		}
		return authority[:i], authority[i+1:], true
	}
	return authority, "", true
}

func validPort(port string) bool {
	if len(port) > 5 {
		return false
	}
	for i := 0; i < len(port); i++ {
		if port[i] < '0' || port[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

func validHost(host string) bool {
	switch {
	case host == "":
		return false
	case strings.EqualFold(host, "localhost"):
		return true
	case strings.HasPrefix(host, "["):
		ip := net.ParseIP(host[1 : len(host)-1])
		return ip != nil && strings.Contains(host, ":")
	case isDottedQuad(host):
		return true
	default:
		return isDomainName(host)
	}
}

func isDottedQuad(host string) bool {
	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return false
		}
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return false
			}
		}
		if n, _ := strconv.Atoi(p); n > 255 {
			return false
		}
	}
	return true
}

func isDomainName(host string) bool {
	host = strings.TrimSuffix(host, ".")
	if len(host) == 0 || len(host) > 253 {
		return false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}

	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return false
	}
	for i := 0; i < len(tld); i++ {
		if !isLetter(tld[i]) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
