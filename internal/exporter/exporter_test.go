package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"monogrid/internal/assets"
	"monogrid/internal/transcoder"
)

// fakeFetcher serves canned bodies by URL. URLs absent from the map
// fail with a 404-style error; URLs in blocked wait for ctx to expire.
type fakeFetcher struct {
	bodies  map[string][]byte
	types   map[string]string
	blocked map[string]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if f.blocked[url] {
		<-ctx.Done()
		return nil, "", ctx.Err()
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, "", fmt.Errorf("unexpected status 404 Not Found")
	}
	return body, f.types[url], nil
}

// memorySink captures the delivered archive.
type memorySink struct {
	filename string
	data     []byte
}

func (s *memorySink) Deliver(filename string, data []byte) error {
	s.filename = filename
	s.data = data
	return nil
}

type failingSink struct{}

func (failingSink) Deliver(string, []byte) error {
	return errors.New("disk full")
}

// passthroughTranscoder copies bytes unchanged regardless of format.
type passthroughTranscoder struct{}

func (passthroughTranscoder) Transcode(data []byte, _ string, _ assets.Format) ([]byte, error) {
	return data, nil
}

// markingTranscoder prepends a marker so tests can tell converted
// bytes from source bytes.
type markingTranscoder struct{}

func (markingTranscoder) Transcode(data []byte, _ string, target assets.Format) ([]byte, error) {
	return append([]byte("converted-"+target.Ext()+":"), data...), nil
}

func photoN(id int64, url string) assets.Asset {
	return assets.Asset{
		ID:           id,
		Kind:         assets.KindPhoto,
		Photographer: fmt.Sprintf("Photographer %d", id),
		Src:          assets.SrcSet{Original: url},
	}
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("delivered archive is not a valid zip: %v", err)
	}

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = content
	}
	return entries
}

func TestExportPartialFailure(t *testing.T) {
	// Three photos, tier Original, format JPG; one URL 404s. The
	// archive must hold exactly two entries and the outcome must name
	// the failed asset.
	fetcher := &fakeFetcher{
		bodies: map[string][]byte{
			"https://img.example.com/1.jpg": []byte("photo-one"),
			"https://img.example.com/3.jpg": []byte("photo-three"),
		},
		types: map[string]string{
			"https://img.example.com/1.jpg": "image/jpeg",
			"https://img.example.com/3.jpg": "image/jpeg",
		},
	}
	batch := []assets.Asset{
		photoN(1, "https://img.example.com/1.jpg"),
		photoN(2, "https://img.example.com/2.jpg"),
		photoN(3, "https://img.example.com/3.jpg"),
	}

	sink := &memorySink{}
	e := New(Config{Fetcher: fetcher, Transcoder: passthroughTranscoder{}, Workers: 2})

	result, err := e.Export(context.Background(), batch,
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
		"batch.zip", sink)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("outcome = {succeeded: %d, failed: %d}, want {succeeded: 2, failed: 1}",
			result.Succeeded, result.Failed)
	}
	if got := result.FailedIDs(); len(got) != 1 || got[0] != 2 {
		t.Errorf("FailedIDs() = %v, want [2]", got)
	}
	if result.State != StateDelivered {
		t.Errorf("result state = %s, want %s", result.State, StateDelivered)
	}

	entries := readArchive(t, sink.data)
	if len(entries) != 2 {
		t.Fatalf("archive has %d entries, want 2: %v", len(entries), entries)
	}
	for name := range entries {
		if !strings.HasPrefix(name, "photos/") {
			t.Errorf("entry %s outside photos/ folder", name)
		}
	}
}

func TestExportAllFailedDeliversEmptyArchive(t *testing.T) {
	fetcher := &fakeFetcher{}
	batch := []assets.Asset{
		photoN(1, "https://img.example.com/1.jpg"),
		photoN(2, "https://img.example.com/2.jpg"),
		photoN(3, "https://img.example.com/3.jpg"),
	}

	sink := &memorySink{}
	e := New(Config{Fetcher: fetcher, Transcoder: passthroughTranscoder{}, Workers: 3})

	result, err := e.Export(context.Background(), batch,
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
		"doomed.zip", sink)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if result.Succeeded != 0 || result.Failed != 3 {
		t.Errorf("outcome = {succeeded: %d, failed: %d}, want {succeeded: 0, failed: 3}",
			result.Succeeded, result.Failed)
	}

	// The archive must still be validly finalized, just empty.
	entries := readArchive(t, sink.data)
	if len(entries) != 0 {
		t.Errorf("archive has %d entries, want 0", len(entries))
	}
}

func TestExportVideoPassThrough(t *testing.T) {
	videoBytes := []byte("raw-mp4-bytes")
	photoBytes := []byte("raw-photo-bytes")

	fetcher := &fakeFetcher{
		bodies: map[string][]byte{
			"https://vid.example.com/9-hd.mp4": videoBytes,
			"https://img.example.com/4.jpg":    photoBytes,
		},
		types: map[string]string{
			"https://vid.example.com/9-hd.mp4": "video/mp4",
			"https://img.example.com/4.jpg":    "image/jpeg",
		},
	}

	batch := []assets.Asset{
		{
			ID:           9,
			Kind:         assets.KindVideo,
			Photographer: "Video Maker",
			VideoFiles: []assets.VideoFile{
				{Quality: "hd", URL: "https://vid.example.com/9-hd.mp4"},
			},
		},
		photoN(4, "https://img.example.com/4.jpg"),
	}

	sink := &memorySink{}
	e := New(Config{Fetcher: fetcher, Transcoder: markingTranscoder{}, Workers: 2})

	result, err := e.Export(context.Background(), batch,
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatWEBP},
		"mixed.zip", sink)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if result.Succeeded != 2 {
		t.Fatalf("succeeded = %d, want 2", result.Succeeded)
	}

	entries := readArchive(t, sink.data)

	video, ok := entries["photos/9-video-maker.mp4"]
	if !ok {
		t.Fatalf("video entry missing; entries: %v", keys(entries))
	}
	if !bytes.Equal(video, videoBytes) {
		t.Error("video bytes must be byte-identical to the source")
	}

	photo, ok := entries["photos/4-photographer-4.webp"]
	if !ok {
		t.Fatalf("photo entry missing; entries: %v", keys(entries))
	}
	if bytes.Equal(photo, photoBytes) {
		t.Error("photo bytes should have been re-encoded")
	}
}

func TestExportRoundTripSameFormat(t *testing.T) {
	// A photo whose source format already equals the target must come
	// back byte-for-byte from the archive (identity fast path through
	// the real transcoder).
	src := []byte{0xFF, 0xD8, 0xFF, 0xE0, 'f', 'a', 'k', 'e', 'j', 'p', 'e', 'g'}
	fetcher := &fakeFetcher{
		bodies: map[string][]byte{"https://img.example.com/6.jpg": src},
		types:  map[string]string{"https://img.example.com/6.jpg": "image/jpeg"},
	}

	sink := &memorySink{}
	e := New(Config{Fetcher: fetcher, Transcoder: transcoder.New(), Workers: 1})

	result, err := e.Export(context.Background(),
		[]assets.Asset{photoN(6, "https://img.example.com/6.jpg")},
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
		"roundtrip.zip", sink)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if result.Succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", result.Succeeded)
	}

	entries := readArchive(t, sink.data)
	got, ok := entries["photos/6-photographer-6.jpg"]
	if !ok {
		t.Fatalf("entry missing; entries: %v", keys(entries))
	}
	if !bytes.Equal(got, src) {
		t.Error("extracted bytes must equal the originally fetched bytes")
	}
}

func TestExportResolutionFailure(t *testing.T) {
	sink := &memorySink{}
	e := New(Config{Fetcher: &fakeFetcher{}, Transcoder: passthroughTranscoder{}, Workers: 1})

	result, err := e.Export(context.Background(),
		[]assets.Asset{{ID: 11, Kind: assets.KindPhoto}},
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
		"empty-asset.zip", sink)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}
	if result.Outcomes[0].ErrKind != ErrKindResolution {
		t.Errorf("error kind = %s, want %s", result.Outcomes[0].ErrKind, ErrKindResolution)
	}
}

func TestExportTranscodeFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		bodies: map[string][]byte{"https://img.example.com/5.jpg": []byte("not an image")},
		types:  map[string]string{"https://img.example.com/5.jpg": "image/png"},
	}

	sink := &memorySink{}
	e := New(Config{Fetcher: fetcher, Transcoder: transcoder.New(), Workers: 1})

	result, err := e.Export(context.Background(),
		[]assets.Asset{photoN(5, "https://img.example.com/5.jpg")},
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
		"corrupt.zip", sink)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if result.Failed != 1 {
		t.Fatalf("failed = %d, want 1", result.Failed)
	}
	if result.Outcomes[0].ErrKind != ErrKindTranscode {
		t.Errorf("error kind = %s, want %s", result.Outcomes[0].ErrKind, ErrKindTranscode)
	}

	var terr *TranscodeError
	if !errors.As(result.Outcomes[0].Err, &terr) || terr.AssetID != 5 {
		t.Errorf("outcome error = %v, want TranscodeError for asset 5", result.Outcomes[0].Err)
	}
}

func TestExportAssetTimeout(t *testing.T) {
	// A hung retrieval converts into a retrieval failure instead of
	// stalling the batch join.
	fetcher := &fakeFetcher{
		bodies: map[string][]byte{"https://img.example.com/1.jpg": []byte("quick")},
		types:  map[string]string{"https://img.example.com/1.jpg": "image/jpeg"},
		blocked: map[string]bool{
			"https://img.example.com/2.jpg": true,
		},
	}
	fetcher.bodies["https://img.example.com/2.jpg"] = []byte("never served")

	batch := []assets.Asset{
		photoN(1, "https://img.example.com/1.jpg"),
		photoN(2, "https://img.example.com/2.jpg"),
	}

	sink := &memorySink{}
	e := New(Config{
		Fetcher:      fetcher,
		Transcoder:   passthroughTranscoder{},
		Workers:      2,
		AssetTimeout: 50 * time.Millisecond,
	})

	done := make(chan struct{})
	var result *Result
	var exportErr error
	go func() {
		result, exportErr = e.Export(context.Background(), batch,
			assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
			"timeout.zip", sink)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("export did not complete; per-asset timeout not applied")
	}

	if exportErr != nil {
		t.Fatalf("Export returned error: %v", exportErr)
	}
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("outcome = {succeeded: %d, failed: %d}, want {succeeded: 1, failed: 1}",
			result.Succeeded, result.Failed)
	}
	if got := result.FailedIDs(); len(got) != 1 || got[0] != 2 {
		t.Errorf("FailedIDs() = %v, want [2]", got)
	}
}

func TestExportDeliveryFailure(t *testing.T) {
	fetcher := &fakeFetcher{
		bodies: map[string][]byte{"https://img.example.com/1.jpg": []byte("photo")},
		types:  map[string]string{"https://img.example.com/1.jpg": "image/jpeg"},
	}

	e := New(Config{Fetcher: fetcher, Transcoder: passthroughTranscoder{}, Workers: 1})

	result, err := e.Export(context.Background(),
		[]assets.Asset{photoN(1, "https://img.example.com/1.jpg")},
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
		"undeliverable.zip", failingSink{})

	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("Export error = %v, want DeliveryError", err)
	}
	// The per-asset work still settled before delivery failed.
	if result == nil || result.Succeeded != 1 {
		t.Errorf("result should report the settled assets despite delivery failure")
	}
}

func TestExportProgressCallback(t *testing.T) {
	fetcher := &fakeFetcher{
		bodies: map[string][]byte{"https://img.example.com/1.jpg": []byte("photo")},
		types:  map[string]string{"https://img.example.com/1.jpg": "image/jpeg"},
	}
	batch := []assets.Asset{
		photoN(1, "https://img.example.com/1.jpg"),
		photoN(2, "https://img.example.com/2.jpg"),
	}

	var seen []Outcome
	e := New(Config{
		Fetcher:    fetcher,
		Transcoder: passthroughTranscoder{},
		Workers:    2,
		OnResult:   func(o Outcome) { seen = append(seen, o) },
	})

	_, err := e.Export(context.Background(), batch,
		assets.ExportOptions{SizeTier: assets.TierOriginal, Format: assets.FormatJPG},
		"progress.zip", &memorySink{})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("callback fired %d times, want 2", len(seen))
	}
	byID := map[int64]Outcome{}
	for _, o := range seen {
		byID[o.AssetID] = o
	}
	if byID[1].Failed() {
		t.Error("asset 1 should have succeeded")
	}
	if !byID[2].Failed() {
		t.Error("asset 2 should have failed")
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
