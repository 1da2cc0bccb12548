package enrich

import "testing"

func TestValidImageURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want bool
	}{
		{"https://cdn.site.com/photo123.jpg", true},
		{"https://cdn.site.com/uploads/2025/scene.webp", true},
		{"https://cdn.site.com/logo-small.png", false},
		{"https://cdn.site.com/assets/Logo.svg", false},
		{"https://cdn.site.com/favicon.ico", false},
		{"https://cdn.site.com/apple-touch-icon.png", false},
		{"https://static.doubleclick.net/pixel/track.gif", false},
		{"https://cdn.site.com/banner-top.jpg", false},
		{"https://cdn.site.com/sponsor/promo.png", false},
		{"https://ad.example.com/creative.jpg", false},
		{"https://cdn.site.com/1x1.gif", false},
		{"", false},
		{"   ", false},
	}

	for _, tc := range cases {
		if got := ValidImageURL(tc.url); got != tc.want {
			t.Errorf("ValidImageURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
