package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  Verdict
	}{
		{
			name:  "ordinary post passes",
			title: "Morning gratitude",
			body:  "Three things I'm grateful for today: coffee, sunshine, and a quiet walk.",
			want:  VerdictClean,
		},
		{
			name:  "blocked term in body",
			title: "Great deal",
			body:  "Check out this casino bonus",
			want:  VerdictRejected,
		},
		{
			name:  "blocked term is case insensitive",
			title: "CASINO night!!",
			body:  "",
			want:  VerdictRejected,
		},
		{
			name:  "blocked term only matches whole words",
			title: "My trip to Scasinoville", // contains 'casino' as substring
			body:  "it was lovely",
			want:  VerdictClean,
		},
		{
			name:  "link spam",
			title: "resources",
			body:  "http://a.com http://b.com http://c.com http://d.com",
			want:  VerdictRejected,
		},
		{
			name:  "a couple of links is fine",
			title: "two articles that helped me",
			body:  "https://example.com/one and https://example.com/two",
			want:  VerdictClean,
		},
		{
			name:  "character flooding",
			title: "aaaaaaaaaaaa",
			body:  "",
			want:  VerdictRejected,
		},
		{
			name:  "phone number",
			title: "call me",
			body:  "reach me at +1 555 123 4567 anytime",
			want:  VerdictRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.title, tt.body)
			assert.Equal(t, tt.want, got.Verdict, "rule: %s", got.Rule)
		})
	}
}
