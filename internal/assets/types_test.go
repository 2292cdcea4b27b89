package assets

import "testing"

func TestParseSizeTier(t *testing.T) {
	tests := []struct {
		input    string
		expected SizeTier
	}{
		{"Original", TierOriginal},
		{"Large", TierLarge},
		{"Medium", TierMedium},
		{"Small", TierSmall},
		{"HD", TierHD},
		{"", TierOriginal},
		{"gigantic", TierOriginal},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSizeTier(tt.input); got != tt.expected {
				t.Errorf("ParseSizeTier(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"JPG", FormatJPG},
		{"jpg", FormatJPG},
		{"JPEG", FormatJPG},
		{"PNG", FormatPNG},
		{"webp", FormatWEBP},
		{"", FormatJPG},
		{"tiff", FormatJPG},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatMimeAndExt(t *testing.T) {
	tests := []struct {
		format Format
		mime   string
		ext    string
	}{
		{FormatJPG, "image/jpeg", "jpg"},
		{FormatPNG, "image/png", "png"},
		{FormatWEBP, "image/webp", "webp"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.MimeType(); got != tt.mime {
				t.Errorf("MimeType() = %s, want %s", got, tt.mime)
			}
			if got := tt.format.Ext(); got != tt.ext {
				t.Errorf("Ext() = %s, want %s", got, tt.ext)
			}
		})
	}
}

func TestOrientation(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		expected string
	}{
		{"wide", 1920, 1080, "landscape"},
		{"tall", 1080, 1920, "portrait"},
		{"square", 1000, 1000, "square"},
		{"near square high", 1100, 1000, "square"},
		{"near square low", 1000, 1100, "square"},
		{"zero dimensions", 0, 0, "square"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Asset{Width: tt.width, Height: tt.height}
			if got := a.Orientation(); got != tt.expected {
				t.Errorf("Orientation() = %s, want %s", got, tt.expected)
			}
		})
	}
}
