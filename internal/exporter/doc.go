// Package exporter implements the batch export pipeline: it resolves
// each asset in a batch to a concrete URL for the requested quality
// tier, fetches the bytes, re-encodes photos to the target format,
// assembles everything into a single ZIP archive, and hands the
// finalized archive to a delivery sink.
//
// Per-asset failures (retrieval, transcode, resolution) are recorded
// and never abort the batch: the pipeline always reaches finalization,
// delivering an empty archive if every asset failed. Only a delivery
// failure is fatal to the batch as a whole.
package exporter
