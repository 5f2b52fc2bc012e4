package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			source:   "hello **world**",
			contains: []string{"<strong>world</strong>"},
		},
		{
			name:     "strikethrough extension",
			source:   "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "script stripped",
			source:   "hi <script>alert(1)</script>",
			excludes: []string{"<script", "alert(1)</script>"},
		},
		{
			name:     "javascript link dropped",
			source:   "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "external link opens safely",
			source:   "[site](https://example.com)",
			contains: []string{`href="https://example.com"`, "nofollow", "noopener", `target="_blank"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.source)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
