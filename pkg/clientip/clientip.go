package clientip

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultHeaders are consulted in order when proxy headers are trusted.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver determines the client address of a request.
// With no trusted headers only RemoteAddr is used, which is the only safe
// choice when the service is reachable without a reverse proxy.
type Resolver struct {
	headers []string
}

// NewResolver returns a Resolver trusting the given headers, in priority
// order. X-Forwarded-For style lists are read left to right.
func NewResolver(trustedHeaders ...string) Resolver {
	return Resolver{headers: trustedHeaders}
}

// IP returns the normalized client address, or "" when none is valid.
func (res Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for part := range strings.SplitSeq(v, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// Middleware stores the resolved address in the request context.
func (res Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

func parseIP(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// KeyFunc returns the context address, falling back to resolving it from
// the request. It matches the ratelimiter key function signature.
func (res Resolver) KeyFunc() func(r *http.Request) string {
	return func(r *http.Request) string {
		if ip := FromContext(r.Context()); ip != "" {
			return ip
		}
		return res.IP(r)
	}
}
