package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"plain", "https://shop.example.com/item/1", "shop.example.com/item/1", true},
		{"scheme insensitive", "http://shop.example.com/item/1", "shop.example.com/item/1", true},
		{"strips www and case", "https://WWW.Shop.Example.com/item/1", "shop.example.com/item/1", true},
		{"trailing slash", "https://shop.example.com/item/1/", "shop.example.com/item/1", true},
		{"fragment dropped", "https://shop.example.com/item/1#reviews", "shop.example.com/item/1", true},
		{"default port dropped", "https://shop.example.com:443/item/1", "shop.example.com/item/1", true},
		{"custom port kept", "http://shop.example.com:8080/item/1", "shop.example.com:8080/item/1", true},
		{"tracking removed", "https://shop.example.com/item/1?utm_source=x&gclid=abc&spm=a1.b2", "shop.example.com/item/1", true},
		{"params sorted", "https://shop.example.com/s?b=2&a=1&utm_medium=cpc", "shop.example.com/s?a=1&b=2", true},
		{"protocol relative", "//item.taobao.com/item.htm?id=42&spm=x", "item.taobao.com/item.htm?id=42", true},
		{"dot segments", "https://shop.example.com/a/../item/1", "shop.example.com/item/1", true},
		{"root", "https://shop.example.com", "shop.example.com/", true},
		{"empty", "", "", false},
		{"no host", "/item/1", "", false},
		{"unsupported scheme", "ftp://shop.example.com/item/1", "", false},
		{"garbage", "http://[::1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalURL(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
