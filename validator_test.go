package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedVideoURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=abc", true},
		{"  https://youtu.be/abc  ", true},
		// Substring match, not host parsing.
		{"https://example.com/?next=youtube.com", true},
		{"https://example.com/x", false},
		{"https://vimeo.com/123", false},
		{"youtube", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, isAllowedVideoURL(tt.url))
		})
	}
}
