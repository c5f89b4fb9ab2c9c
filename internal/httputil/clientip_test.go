package httputil

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "ipv4 with port", remoteAddr: "192.0.2.7:50123", want: "192.0.2.7"},
		{name: "ipv6 with port", remoteAddr: "[2001:db8::7]:443", want: "2001:db8::7"},
		{name: "bare address", remoteAddr: "192.0.2.7", want: "192.0.2.7"},
		{
			name:       "proxy headers ignored unless trusted",
			remoteAddr: "10.1.0.4:8080",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.20", "X-Real-IP": "198.51.100.21"},
			want:       "10.1.0.4",
		},
		{
			name:       "first forwarded hop",
			remoteAddr: "10.1.0.4:8080",
			headers:    map[string]string{"X-Forwarded-For": " 198.51.100.20 , 10.1.0.2"},
			trustProxy: true,
			want:       "198.51.100.20",
		},
		{
			name:       "forwarded wins over real ip",
			remoteAddr: "10.1.0.4:8080",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.20", "X-Real-IP": "198.51.100.21"},
			trustProxy: true,
			want:       "198.51.100.20",
		},
		{
			name:       "garbage forwarded value",
			remoteAddr: "10.1.0.4:8080",
			headers:    map[string]string{"X-Forwarded-For": "observer-7", "X-Real-IP": "198.51.100.21"},
			trustProxy: true,
			want:       "198.51.100.21",
		},
		{
			name:       "ipv6 canonical form",
			remoteAddr: "10.1.0.4:8080",
			headers:    map[string]string{"X-Real-IP": "2001:DB8:0::1"},
			trustProxy: true,
			want:       "2001:db8::1",
		},
		{
			name:       "trusted without headers",
			remoteAddr: "10.1.0.4:8080",
			trustProxy: true,
			want:       "10.1.0.4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/stream/estimate", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
