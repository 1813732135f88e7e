package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		base string
		want string
		ok   bool
	}{
		{
			name: "absolute url passes through",
			raw:  "https://cdn.example.com/a.jpg",
			base: "https://x.com/r",
			want: "https://cdn.example.com/a.jpg",
			ok:   true,
		},
		{
			name: "protocol relative inherits base scheme",
			raw:  "//cdn.example.com/a.jpg",
			base: "https://x.com/r",
			want: "https://cdn.example.com/a.jpg",
			ok:   true,
		},
		{
			name: "root relative inherits scheme and host",
			raw:  "/img/a.jpg",
			base: "https://x.com/r/1",
			want: "https://x.com/img/a.jpg",
			ok:   true,
		},
		{
			name: "relative resolves against base path",
			raw:  "a.jpg",
			base: "https://x.com/r/1",
			want: "https://x.com/r/a.jpg",
			ok:   true,
		},
		{
			name: "root relative with absolute url in query stays root relative",
			raw:  "/redirect?to=https://cdn.x.com/a.jpg",
			base: "https://y.com/r",
			want: "https://y.com/redirect?to=https://cdn.x.com/a.jpg",
			ok:   true,
		},
		{
			name: "empty input is rejected",
			raw:  "   ",
			base: "https://x.com",
			ok:   false,
		},
		{
			name: "relative with malformed base is rejected",
			raw:  "/img/a.jpg",
			base: "not a url",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.raw, tt.base)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "x.com", Hostname("https://x.com/recipes"))
	assert.Equal(t, "x.com", Hostname("https://x.com:8080/recipes"))
	assert.Equal(t, "plain-text", Hostname("plain-text"))
}
