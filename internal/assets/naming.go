package assets

import (
	"fmt"
	"regexp"
	"strings"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Slug lowercases a name and collapses whitespace runs into single
// hyphens. It deliberately leaves other characters untouched; archive
// entry uniqueness comes from the asset id, not from the slug.
func Slug(name string) string {
	return strings.ToLower(whitespaceRuns.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// EntryName computes the deterministic archive entry name for an asset:
// {id}-{slug(photographer or "asset")}.{extension}. Because ids are
// unique per batch, entry names are unique even when attribution names
// collide.
func EntryName(a *Asset, format Format) string {
	attribution := a.Photographer
	if strings.TrimSpace(attribution) == "" {
		attribution = "asset"
	}
	ext := format.Ext()
	if a.Kind == KindVideo {
		ext = VideoExt
	}
	return fmt.Sprintf("%d-%s.%s", a.ID, Slug(attribution), ext)
}

// ArchiveName computes the download filename for a full-collection
// export: {collection-slug}-{sizetier}-{format}.zip, lowercased.
func ArchiveName(collectionName string, opts ExportOptions) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s.zip",
		Slug(collectionName), opts.SizeTier, opts.Format))
}
