package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address the request came from. With trustProxy the
// first X-Forwarded-For entry, then X-Real-IP, win over RemoteAddr; header
// values that are not IP addresses are ignored. Only enable trustProxy
// behind a reverse proxy that overwrites these headers.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := parseIP(first); ip != "" {
				return ip
			}
		}
		if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
