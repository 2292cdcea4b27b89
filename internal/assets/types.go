package assets

import "strings"

// Kind discriminates the asset variants.
type Kind string

const (
	// KindPhoto is a still image asset.
	KindPhoto Kind = "photo"
	// KindVideo is a video asset.
	KindVideo Kind = "video"
)

// SrcSet holds the pre-rendered quality tiers the catalog exposes for a
// photo. Empty fields mean the tier is not available.
type SrcSet struct {
	Original  string `json:"original,omitempty"`
	Large2x   string `json:"large2x,omitempty"`
	Large     string `json:"large,omitempty"`
	Medium    string `json:"medium,omitempty"`
	Small     string `json:"small,omitempty"`
	Tiny      string `json:"tiny,omitempty"`
	Portrait  string `json:"portrait,omitempty"`
	Landscape string `json:"landscape,omitempty"`
}

// VideoFile is one encoded rendition of a video asset.
type VideoFile struct {
	Quality string `json:"quality"`
	URL     string `json:"link"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Asset is a single photo or video item from the media catalog.
// ID must be unique within any batch handed to the exporter; duplicate
// ids are a caller error, not silently deduplicated downstream.
type Asset struct {
	ID           int64       `json:"id"`
	Kind         Kind        `json:"kind"`
	Photographer string      `json:"photographer,omitempty"`
	Alt          string      `json:"alt,omitempty"`
	Width        int         `json:"width,omitempty"`
	Height       int         `json:"height,omitempty"`
	Src          SrcSet      `json:"src,omitempty"`
	VideoFiles   []VideoFile `json:"video_files,omitempty"`
}

// SizeTier selects which quality tier to request for a batch.
type SizeTier string

const (
	// TierOriginal requests the untouched source rendition.
	TierOriginal SizeTier = "Original"
	// TierLarge requests the large2x rendition (~1880px wide).
	TierLarge SizeTier = "Large"
	// TierMedium requests the large rendition (~940px wide).
	TierMedium SizeTier = "Medium"
	// TierSmall requests the medium rendition (~350px tall).
	TierSmall SizeTier = "Small"
	// TierHD requests the hd rendition of a video.
	TierHD SizeTier = "HD"
)

// ParseSizeTier maps a string to a SizeTier. Unrecognized values fall
// back to TierOriginal.
func ParseSizeTier(s string) SizeTier {
	switch SizeTier(s) {
	case TierOriginal, TierLarge, TierMedium, TierSmall, TierHD:
		return SizeTier(s)
	default:
		return TierOriginal
	}
}

// Format is the target encoding for exported photos. It is ignored for
// videos, which are always copied verbatim.
type Format string

const (
	// FormatJPG exports photos as JPEG.
	FormatJPG Format = "JPG"
	// FormatPNG exports photos as PNG.
	FormatPNG Format = "PNG"
	// FormatWEBP exports photos as WebP.
	FormatWEBP Format = "WEBP"
)

// ParseFormat maps a string to a Format. Unrecognized values fall back
// to FormatJPG.
func ParseFormat(s string) Format {
	switch Format(strings.ToUpper(s)) {
	case FormatJPG, FormatPNG, FormatWEBP:
		return Format(strings.ToUpper(s))
	case "JPEG":
		return FormatJPG
	default:
		return FormatJPG
	}
}

// MimeType returns the MIME type the format encodes to.
func (f Format) MimeType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWEBP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// Ext returns the lowercase file extension for the format, without dot.
func (f Format) Ext() string {
	return strings.ToLower(string(f))
}

// VideoExt is the extension used for exported video entries. Videos are
// never transcoded, and the catalog serves mp4 containers.
const VideoExt = "mp4"

// ExportOptions is the immutable configuration for one export batch.
type ExportOptions struct {
	SizeTier SizeTier `json:"size"`
	Format   Format   `json:"format"`
}

// Orientation buckets an asset by aspect ratio using the same
// thresholds as the collection browser: landscape above 1.2, portrait
// below 0.8, square in between.
func (a *Asset) Orientation() string {
	if a.Height <= 0 || a.Width <= 0 {
		return "square"
	}
	ratio := float64(a.Width) / float64(a.Height)
	switch {
	case ratio > 1.2:
		return "landscape"
	case ratio < 0.8:
		return "portrait"
	default:
		return "square"
	}
}
