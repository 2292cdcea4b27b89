// Package transcoder converts still-image bytes between encodings for
// the export pipeline.
//
// Conversion never resizes: resolution is controlled solely by which
// quality tier the exporter fetched. When the source encoding already
// matches the target, the input bytes are returned unchanged; this is a
// required fast path, since re-encoding is lossy.
//
// Encoding prefers libvips (the only WebP encode path); when libvips is
// unavailable the package falls back to pure-Go JPEG and PNG encoding.
// Video bytes never pass through this package.
package transcoder
