package transcoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"time"

	"monogrid/internal/assets"
	"monogrid/internal/logging"
	"monogrid/internal/metrics"

	"github.com/disintegration/imaging"

	// Image format decoders
	_ "image/gif"
	_ "golang.org/x/image/webp" // WebP decode support (no encode in pure Go)
)

// Quality is the fixed re-encode quality factor for lossy targets,
// matching the 0.9 the export UI always used.
const Quality = 90

// Transcoder converts raster image bytes to a target encoding.
type Transcoder struct{}

// New creates a Transcoder. Call InitVips beforehand if libvips should
// be used for encoding; without it WebP targets fail.
func New() *Transcoder {
	return &Transcoder{}
}

// Transcode converts data to the target format at native dimensions.
// If the source MIME type already matches the target's, the input is
// returned byte-for-byte unchanged. Decode or encode failures return a
// wrapped error; callers decide how to classify it.
func (t *Transcoder) Transcode(data []byte, sourceMime string, target assets.Format) ([]byte, error) {
	if normalizeMime(sourceMime) == target.MimeType() {
		metrics.TranscodeTotal.WithLabelValues(target.Ext(), "passthrough").Inc()
		return data, nil
	}

	start := time.Now()
	out, err := t.convert(data, target)
	metrics.TranscodeDuration.WithLabelValues(target.Ext()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TranscodeTotal.WithLabelValues(target.Ext(), "error").Inc()
		return nil, err
	}
	metrics.TranscodeTotal.WithLabelValues(target.Ext(), "converted").Inc()
	return out, nil
}

func (t *Transcoder) convert(data []byte, target assets.Format) ([]byte, error) {
	if IsVipsAvailable() {
		out, err := encodeWithVips(data, target)
		if err == nil {
			return out, nil
		}
		logging.Debug("vips conversion failed, trying pure-Go path: %v", err)
	}

	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	var buf bytes.Buffer
	switch target {
	case assets.FormatJPG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case assets.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case assets.FormatWEBP:
		// Pure Go has no WebP encoder; this target needs libvips.
		return nil, fmt.Errorf("webp encoding requires libvips")
	default:
		return nil, fmt.Errorf("unsupported target format %q", target)
	}
	return buf.Bytes(), nil
}

// decodeImage decodes raster bytes, honoring EXIF orientation the same
// way the rest of the pipeline does.
func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	// imaging only understands a subset of registered formats; fall
	// back to the full decoder registry (gif, webp, ...).
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	logging.Debug("decoded image via registry fallback (format: %s)", format)
	return img, nil
}

// normalizeMime strips parameters and maps aliases so MIME comparison
// is stable across upstreams.
func normalizeMime(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "image/jpg" {
		return "image/jpeg"
	}
	return mime
}
