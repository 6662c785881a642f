package validator

import (
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxLength int
		want      string
	}{
		{
			name:      "simple title",
			input:     "Hello World",
			maxLength: 255,
			want:      "hello-world",
		},
		{
			name:      "trailing whitespace collapses to same slug",
			input:     "Tech ",
			maxLength: 255,
			want:      "tech",
		},
		{
			name:      "mixed case and punctuation",
			input:     "Go's Concurrency: Channels & Goroutines!",
			maxLength: 255,
			want:      "go-s-concurrency-channels-goroutines",
		},
		{
			name:      "multiple spaces collapse",
			input:     "a   b    c",
			maxLength: 255,
			want:      "a-b-c",
		},
		{
			name:      "truncation does not end with hyphen",
			input:     "abcde fghij",
			maxLength: 6,
			want:      "abcde",
		},
		{
			name:      "numbers preserved",
			input:     "Top 10 Posts of 2025",
			maxLength: 255,
			want:      "top-10-posts-of-2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlug(tt.input, tt.maxLength)
			if got != tt.want {
				t.Errorf("GenerateSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}

			// The derivation must be deterministic
			if again := GenerateSlug(tt.input, tt.maxLength); again != got {
				t.Errorf("GenerateSlug(%q) is not deterministic: %q vs %q", tt.input, got, again)
			}
		})
	}
}

func TestValidateSlugFormat(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		maxLen  int
		wantErr error
	}{
		{name: "valid slug", slug: "hello-world-42", maxLen: 255, wantErr: nil},
		{name: "empty slug", slug: "", maxLen: 255, wantErr: ErrSlugEmpty},
		{name: "uppercase rejected", slug: "Hello", maxLen: 255, wantErr: ErrInvalidSlugFormat},
		{name: "spaces rejected", slug: "hello world", maxLen: 255, wantErr: ErrInvalidSlugFormat},
		{name: "too long", slug: "abcdef", maxLen: 5, wantErr: ErrSlugTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlugFormat(tt.slug, tt.maxLen)
			if err != tt.wantErr {
				t.Errorf("ValidateSlugFormat(%q) = %v, want %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestGeneratedSlugsAlwaysValidate(t *testing.T) {
	inputs := []string{"Hello World", "Tech ", "  padded  ", "C++ vs Go", "émigré notes"}
	for _, input := range inputs {
		slug := GenerateSlug(input, 255)
		if slug == "" {
			continue
		}
		if err := ValidateSlugFormat(slug, 255); err != nil {
			t.Errorf("GenerateSlug(%q) produced invalid slug %q: %v", input, slug, err)
		}
	}
}
