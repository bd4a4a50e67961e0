package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain public url",
			url:  "http://localhost:9000/wardrobe/1712345678.jpg",
			want: "1712345678.jpg",
		},
		{
			name: "signed url query stripped",
			url:  "http://localhost:9000/wardrobe/1712345678.jpg?X-Amz-Signature=abc&X-Amz-Expires=60",
			want: "1712345678.jpg",
		},
		{
			name: "nested prefix keeps only trailing segment",
			url:  "https://cdn.example.com/bucket/a/b/c.jpg",
			want: "c.jpg",
		},
		{
			name: "no path",
			url:  "http://localhost:9000",
			want: "",
		},
		{
			name: "root path",
			url:  "http://localhost:9000/",
			want: "",
		},
		{
			name: "unparseable",
			url:  "http://bad url with spaces",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFromURL(tt.url))
		})
	}
}
