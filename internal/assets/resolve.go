package assets

import "errors"

// ErrNoSource reports an asset descriptor with no usable URL for any
// tier. Well-formed catalog responses never produce one; the exporter
// degrades it to a per-asset failure instead of panicking.
var ErrNoSource = errors.New("asset has no usable source URL")

// ResolveURL maps an (asset, size tier) pair to a concrete retrievable
// URL. It is pure and deterministic: the same pair always resolves to
// the same URL.
//
// For photos the tier names are descriptive buckets, not exact pixel
// thresholds: Original→original, Large→large2x, Medium→large,
// Small→medium, anything else→original. If the selected tier is absent
// the resolver falls back through the remaining tiers rather than fail.
//
// For videos the hd rendition is used when present, otherwise the first
// listed file. The requested tier currently has no further effect on
// video selection; only one quality is ever exposed per asset.
func ResolveURL(a *Asset, tier SizeTier) (string, error) {
	switch a.Kind {
	case KindVideo:
		return resolveVideo(a)
	default:
		return resolvePhoto(a, tier)
	}
}

func resolvePhoto(a *Asset, tier SizeTier) (string, error) {
	var selected string
	switch tier {
	case TierLarge:
		selected = a.Src.Large2x
	case TierMedium:
		selected = a.Src.Large
	case TierSmall:
		selected = a.Src.Medium
	default:
		selected = a.Src.Original
	}
	if selected != "" {
		return selected, nil
	}

	// Requested tier missing: take the best remaining one.
	for _, url := range []string{
		a.Src.Original, a.Src.Large2x, a.Src.Large, a.Src.Medium,
		a.Src.Small, a.Src.Tiny, a.Src.Portrait, a.Src.Landscape,
	} {
		if url != "" {
			return url, nil
		}
	}
	return "", ErrNoSource
}

func resolveVideo(a *Asset) (string, error) {
	for _, f := range a.VideoFiles {
		if f.Quality == "hd" && f.URL != "" {
			return f.URL, nil
		}
	}
	for _, f := range a.VideoFiles {
		if f.URL != "" {
			return f.URL, nil
		}
	}
	return "", ErrNoSource
}
