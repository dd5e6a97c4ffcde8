package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/portability/pkg/clientip"
)

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		trusted  []string
		remote   string
		headers  map[string]string
		expected string
	}{
		{
			name:     "remote addr with port",
			remote:   "203.0.113.7:51234",
			expected: "203.0.113.7",
		},
		{
			name:     "remote addr without port",
			remote:   "203.0.113.7",
			expected: "203.0.113.7",
		},
		{
			name:     "ipv6 remote addr",
			remote:   "[2001:db8::1]:443",
			expected: "2001:db8::1",
		},
		{
			name:     "ipv4 mapped ipv6 is unmapped",
			remote:   "[::ffff:192.0.2.1]:80",
			expected: "192.0.2.1",
		},
		{
			name:     "untrusted headers are ignored",
			remote:   "10.0.0.1:80",
			headers:  map[string]string{"X-Forwarded-For": "198.51.100.1"},
			expected: "10.0.0.1",
		},
		{
			name:     "first valid forwarded entry",
			trusted:  clientip.DefaultHeaders,
			remote:   "10.0.0.1:80",
			headers:  map[string]string{"X-Forwarded-For": "garbage, 198.51.100.1, 10.0.0.2"},
			expected: "198.51.100.1",
		},
		{
			name:    "header priority",
			trusted: clientip.DefaultHeaders,
			remote:  "10.0.0.1:80",
			headers: map[string]string{
				"CF-Connecting-IP": "198.51.100.9",
				"X-Forwarded-For":  "198.51.100.1",
			},
			expected: "198.51.100.9",
		},
		{
			name:     "invalid headers fall back to remote addr",
			trusted:  clientip.DefaultHeaders,
			remote:   "10.0.0.1:80",
			headers:  map[string]string{"X-Real-IP": "not-an-ip"},
			expected: "10.0.0.1",
		},
		{
			name:     "invalid remote addr",
			remote:   "bogus",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, clientip.NewResolver(tt.trusted...).IP(r))
		})
	}
}

func TestResolver_Middleware(t *testing.T) {
	t.Parallel()

	res := clientip.NewResolver()
	var fromCtx, fromKey string
	h := res.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = clientip.FromContext(r.Context())
		fromKey = res.KeyFunc()(r)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:1234"
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "192.0.2.10", fromCtx)
	assert.Equal(t, "192.0.2.10", fromKey)
}

func TestResolver_KeyFuncWithoutMiddleware(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.11:1234"
	assert.Equal(t, "192.0.2.11", clientip.NewResolver().KeyFunc()(r))
}
