// Package assets defines the media asset model shared by the catalog
// client, the export pipeline, and the collection store.
//
// An Asset is a tagged variant over photos and videos. Photos carry a
// set of pre-rendered quality tiers keyed by name; videos carry an
// ordered list of encoded files. The package also provides the pure
// tier-to-URL resolver and the deterministic naming scheme used for
// archive entries and archive filenames.
package assets
