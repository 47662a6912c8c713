package ccip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// ErrInvalidDNSName is returned for malformed DNS wire-format names.
var ErrInvalidDNSName = errors.New("invalid DNS-encoded name")

// DecodeDNSName converts a DNS wire-format name (length-prefixed labels
// terminated by a zero byte) to dotted form without a trailing dot. Label
// bytes are kept verbatim so that UTF-8 names hash correctly.
func DecodeDNSName(wire []byte) (string, error) {
	labels := []string{}
	for off := 0; ; {
		if off >= len(wire) {
			return "", fmt.Errorf("%w: missing terminator", ErrInvalidDNSName)
		}
		n := int(wire[off])
		off++
		if n == 0 {
			if off != len(wire) {
				return "", fmt.Errorf("%w: trailing bytes", ErrInvalidDNSName)
			}
			break
		}
		if n > 63 || off+n > len(wire) {
			return "", fmt.Errorf("%w: bad label length %d", ErrInvalidDNSName, n)
		}
		label := string(wire[off : off+n])
		if strings.Contains(label, ".") {
			return "", fmt.Errorf("%w: label contains a dot", ErrInvalidDNSName)
		}
		labels = append(labels, label)
		off += n
	}
	return strings.Join(labels, "."), nil
}

// EncodeDNSName converts a dotted name to DNS wire format.
func EncodeDNSName(name string) ([]byte, error) {
	buf := make([]byte, len(name)+2)
	n, err := dns.PackDomainName(dns.Fqdn(name), buf, 0, nil, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDNSName, err)
	}
	return buf[:n], nil
}
