package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOrigin(t *testing.T) {
	cases := []struct {
		name    string
		allowed string
		origin  string
		ok      bool
	}{
		{"wildcard allows any browser origin", "*", "http://localhost:3000", true},
		{"empty config allows any origin", "", "https://shop.example.com", true},
		{"listed origin passes", "https://shop.example.com", "https://shop.example.com", true},
		{"second entry in csv passes", "https://a.example.com, https://b.example.com", "https://b.example.com", true},
		{"unlisted origin is rejected", "https://shop.example.com", "https://evil.example.com", false},
		{"wildcard inside csv allows everything", "https://a.example.com,*", "https://evil.example.com", true},
		{"non-browser client without origin passes", "https://shop.example.com", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(nil, nil, tc.allowed)
			req := httptest.NewRequest("GET", "/v1/chat/ws", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			assert.Equal(t, tc.ok, h.checkOrigin(req))
		})
	}
}
