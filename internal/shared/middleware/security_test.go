package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "empty allowed hosts returns true",
			host:         "example.com",
			allowedHosts: []string{},
			want:         true,
		},
		{
			name:         "exact match",
			host:         "example.com:8080",
			allowedHosts: []string{"example.com:8080"},
			want:         true,
		},
		{
			name:         "host without port matches allowed with port",
			host:         "example.com",
			allowedHosts: []string{"example.com:8080"},
			want:         true,
		},
		{
			name:         "host with port matches allowed without port",
			host:         "localhost:3000",
			allowedHosts: []string{"localhost"},
			want:         true,
		},
		{
			name:         "IPv6 loopback with port",
			host:         "[::1]:8080",
			allowedHosts: []string{"::1"},
			want:         true,
		},
		{
			name:         "case insensitive match",
			host:         "Example.COM",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "unlisted host rejected",
			host:         "evil.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
		{
			name:         "subdomain is not a match",
			host:         "api.example.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHostAllowed(tt.host, tt.allowedHosts)
			if got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v", tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestAllowedHostsMiddleware(t *testing.T) {
	handler := AllowedHosts([]string{"example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("allowed host got status %d, want 200", rr.Code)
	}

	req = httptest.NewRequest("GET", "http://evil.com/", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("rejected host got status %d, want 400", rr.Code)
	}
}

func TestEnsureSecureCookie(t *testing.T) {
	got := ensureSecureCookie("access_token=abc; Path=/")
	for _, want := range []string{"Secure", "HttpOnly", "SameSite=Strict"} {
		if !containsAttr(got, want) {
			t.Errorf("ensureSecureCookie() = %q, missing %q", got, want)
		}
	}

	// Already-secure cookies are not doubled up.
	got = ensureSecureCookie("access_token=abc; Secure; HttpOnly; SameSite=Lax")
	if countAttr(got, "Secure") != 1 {
		t.Errorf("ensureSecureCookie() duplicated Secure: %q", got)
	}
	if containsAttr(got, "SameSite=Strict") {
		t.Errorf("ensureSecureCookie() overrode existing SameSite: %q", got)
	}
}

func containsAttr(cookie, attr string) bool {
	return countAttr(cookie, attr) > 0
}

func countAttr(cookie, attr string) int {
	n := 0
	for _, p := range splitCookie(cookie) {
		if p == attr {
			n++
		}
	}
	return n
}

func splitCookie(cookie string) []string {
	var out []string
	for _, p := range strings.Split(cookie, ";") {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
