package metadata

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-ledger/pkg/requestcontext"
)

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trusted    []netip.Prefix
		want       string
	}{
		{
			name:       "untrusted peer ignores forwarded header",
			remoteAddr: "192.168.1.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			trusted:    proxies,
			want:       "192.168.1.1",
		},
		{
			name:       "trusted proxy forwards first hop",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.7"},
			trusted:    proxies,
			want:       "203.0.113.1",
		},
		{
			name:       "trusted proxy with X-Real-IP",
			remoteAddr: "10.1.2.3:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.4"},
			trusted:    proxies,
			want:       "198.51.100.4",
		},
		{
			name:       "malformed forwarded value falls back to peer",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			trusted:    proxies,
			want:       "10.0.0.1",
		},
		{
			name:       "oversized header falls back to peer",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": strings.Repeat("1", MaxForwardedHeaderLength+1)},
			trusted:    proxies,
			want:       "10.0.0.1",
		},
		{
			name:       "ipv6 peer",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "unparseable peer",
			remoteAddr: "",
			want:       "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := ClientIP(tt.trusted)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = requestcontext.ClientIP(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/tenants/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	t.Run("blank trusts nothing", func(t *testing.T) {
		prefixes, err := ParseTrustedProxies(" ")
		require.NoError(t, err)
		assert.Empty(t, prefixes)
	})

	t.Run("masks host bits", func(t *testing.T) {
		prefixes, err := ParseTrustedProxies("10.0.0.5/8, 172.16.0.0/12")
		require.NoError(t, err)
		require.Len(t, prefixes, 2)
		assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	})

	t.Run("single address is a host prefix", func(t *testing.T) {
		prefixes, err := ParseTrustedProxies("192.168.1.1")
		require.NoError(t, err)
		require.Len(t, prefixes, 1)
		assert.Equal(t, "192.168.1.1/32", prefixes[0].String())
	})

	t.Run("rejects bad cidr", func(t *testing.T) {
		_, err := ParseTrustedProxies("10.0.0.0/33")
		assert.Error(t, err)
	})
}
