package clientinfo

import (
	"net/netip"
	"strings"

	"github.com/khanghh/kattend/params"
)

const (
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderCFIPCountry    = "CF-IPCountry"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXForwarded     = "X-Forwarded"
	HeaderForwardedFor   = "Forwarded-For"
	HeaderForwarded      = "Forwarded"
	HeaderXRealIP        = "X-Real-IP"
	HeaderUserAgent      = "User-Agent"
)

// forwardedChainHeaders are consulted in order, only the first present one is used.
var forwardedChainHeaders = []string{
	HeaderXForwardedFor,
	HeaderXForwarded,
	HeaderForwardedFor,
	HeaderForwarded,
}

const ipv4MappedPrefix = "::ffff:"

// NormalizeIP trims surrounding whitespace and drops the IPv4-mapped IPv6 prefix.
func NormalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if len(ip) >= len(ipv4MappedPrefix) && strings.EqualFold(ip[:len(ipv4MappedPrefix)], ipv4MappedPrefix) {
		ip = ip[len(ipv4MappedPrefix):]
	}
	return strings.TrimSpace(ip)
}

// parseAddr accepts bare addresses, host:port, [v6]:port and RFC 7239 for= values.
func parseAddr(raw string) (netip.Addr, bool) {
	s := strings.Trim(NormalizeIP(raw), `"`)
	if len(s) > 4 && strings.EqualFold(s[:4], "for=") {
		s = strings.Trim(NormalizeIP(s[4:]), `"`)
	}
	if s == "" {
		return netip.Addr{}, false
	}
	if addr, err := netip.ParseAddr(s); err == nil {
		return addr.Unmap(), true
	}
	if addrPort, err := netip.ParseAddrPort(s); err == nil {
		return addrPort.Addr().Unmap(), true
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		if addr, err := netip.ParseAddr(s[1 : len(s)-1]); err == nil {
			return addr.Unmap(), true
		}
	}
	return netip.Addr{}, false
}

// IsPrivateIP reports whether ip is loopback, link-local, unique-local or in an
// RFC 1918 range. Empty and unparsable input is treated as private.
func IsPrivateIP(ip string) bool {
	addr, ok := parseAddr(ip)
	if !ok {
		return true
	}
	if addr.IsUnspecified() || addr.IsLoopback() || addr.IsPrivate() {
		return true
	}
	return addr.Is6() && addr.IsLinkLocalUnicast()
}

func cleanAddr(raw string) string {
	if addr, ok := parseAddr(raw); ok {
		return addr.String()
	}
	return NormalizeIP(raw)
}

// splitChain returns the non-empty entries of a forwarded chain, left-most first.
func splitChain(raw string) []string {
	var entries []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "=") {
			part = forwardedFor(part)
		}
		if part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// forwardedFor extracts the for= pair of one RFC 7239 forwarded element.
func forwardedFor(element string) string {
	for _, pair := range strings.Split(element, ";") {
		pair = strings.TrimSpace(pair)
		if len(pair) > 4 && strings.EqualFold(pair[:4], "for=") {
			return strings.Trim(strings.TrimSpace(pair[4:]), `"`)
		}
	}
	return ""
}

// ResolveIP returns the best-effort originating client address. header looks up
// a request header by name, peerAddr is the transport level remote address.
// The result is never empty.
func ResolveIP(header func(string) string, peerAddr string) string {
	if ip := header(HeaderCFConnectingIP); ip != "" && !IsPrivateIP(ip) {
		return cleanAddr(ip)
	}

	for _, name := range forwardedChainHeaders {
		raw := header(name)
		if raw == "" {
			continue
		}
		entries := splitChain(raw)
		for _, entry := range entries {
			if !IsPrivateIP(entry) {
				return cleanAddr(entry)
			}
		}
		if len(entries) > 0 {
			return cleanAddr(entries[0])
		}
		break
	}

	if ip := header(HeaderXRealIP); ip != "" && !IsPrivateIP(ip) {
		return cleanAddr(ip)
	}

	if ip := cleanAddr(peerAddr); ip != "" {
		return ip
	}
	return params.UnknownValue
}

// ResolveLocation returns a coarse geolocation label supplied by the edge
// proxy, or Unknown.
func ResolveLocation(header func(string) string) string {
	country := strings.ToUpper(strings.TrimSpace(header(HeaderCFIPCountry)))
	switch country {
	case "", "XX", "T1":
		return params.UnknownValue
	}
	return country
}
