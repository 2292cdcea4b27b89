package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"monogrid/internal/assets"
	"monogrid/internal/logging"
	"monogrid/internal/memory"
	"monogrid/internal/metrics"
	"monogrid/internal/workers"
)

// archiveFolder is the single flat folder all entries live under,
// matching the layout the download UI has always produced.
const archiveFolder = "photos/"

// State tracks a batch job through its lifecycle. There is no
// batch-level failed state: failure exists only per asset, except for
// delivery, which surfaces as an error instead of a state.
type State string

const (
	// StatePending is a job that has not started running.
	StatePending State = "pending"
	// StateRunning is a job with asset pipelines in flight.
	StateRunning State = "running"
	// StateFinalizing is a job whose archive is being finalized.
	StateFinalizing State = "finalizing"
	// StateDelivered is a job whose archive reached the sink.
	StateDelivered State = "delivered"
)

// ImageTranscoder converts photo bytes to the target format. Video
// bytes are copied verbatim and never pass through it.
type ImageTranscoder interface {
	Transcode(data []byte, sourceMime string, target assets.Format) ([]byte, error)
}

// Outcome reports the result of one asset's pipeline.
type Outcome struct {
	AssetID   int64       `json:"id"`
	Kind      assets.Kind `json:"kind"`
	EntryName string      `json:"entry,omitempty"`
	ErrKind   string      `json:"error,omitempty"`
	Err       error       `json:"-"`
}

// Failed reports whether the asset produced no archive entry.
func (o Outcome) Failed() bool { return o.Err != nil }

// Result is the caller-visible summary of a finished batch.
type Result struct {
	Filename  string        `json:"filename"`
	Requested int           `json:"requested"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Bytes     int           `json:"bytes"`
	Duration  time.Duration `json:"-"`
	Outcomes  []Outcome     `json:"outcomes"`
	State     State         `json:"state"`
}

// SucceededIDs returns the ids of assets whose entries made the archive.
func (r *Result) SucceededIDs() []int64 {
	ids := make([]int64, 0, r.Succeeded)
	for _, o := range r.Outcomes {
		if !o.Failed() {
			ids = append(ids, o.AssetID)
		}
	}
	return ids
}

// FailedIDs returns the ids of assets that produced no entry.
func (r *Result) FailedIDs() []int64 {
	ids := make([]int64, 0, r.Failed)
	for _, o := range r.Outcomes {
		if o.Failed() {
			ids = append(ids, o.AssetID)
		}
	}
	return ids
}

// Config configures an Exporter.
type Config struct {
	// Fetcher retrieves asset bytes. Nil uses an HTTPFetcher over
	// http.DefaultClient.
	Fetcher Fetcher
	// Transcoder converts photo bytes. Nil means photos are copied
	// verbatim like videos (tests only; production always sets one).
	Transcoder ImageTranscoder
	// Workers is the pipeline fan-out. 0 sizes automatically for
	// mixed fetch/encode work.
	Workers int
	// AssetTimeout bounds a single asset's retrieval and conversion.
	// A stuck download becomes a retrieval failure instead of stalling
	// the batch join. 0 disables the per-asset deadline.
	AssetTimeout time.Duration
	// OnResult, when set, receives each asset's outcome as it settles.
	// Called from a single goroutine.
	OnResult func(Outcome)
	// Memory, when set, pauses workers between assets while heap
	// usage is critical. Archives are buffered in memory, so this is
	// the only brake on a burst of large originals.
	Memory *memory.Monitor
}

// Exporter runs batch export jobs. Safe for concurrent use; each
// Export call owns its job state.
type Exporter struct {
	fetcher      Fetcher
	transcoder   ImageTranscoder
	numWorkers   int
	assetTimeout time.Duration
	onResult     func(Outcome)
	memory       *memory.Monitor
}

// New creates an Exporter from cfg, applying defaults.
func New(cfg Config) *Exporter {
	if cfg.Fetcher == nil {
		cfg.Fetcher = NewHTTPFetcher(nil)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = workers.ForMixed(8)
	}
	return &Exporter{
		fetcher:      cfg.Fetcher,
		transcoder:   cfg.Transcoder,
		numWorkers:   cfg.Workers,
		assetTimeout: cfg.AssetTimeout,
		onResult:     cfg.OnResult,
		memory:       cfg.Memory,
	}
}

// Workers reports the pipeline fan-out after defaulting.
func (e *Exporter) Workers() int { return e.numWorkers }

// entry is a finished archive member waiting for insertion.
type entry struct {
	name string
	data []byte
}

// settled pairs an asset's outcome with its entry, if any.
type settled struct {
	outcome Outcome
	entry   *entry
}

// Export runs the batch pipeline over batch and delivers the finalized
// archive to sink under filename.
//
// Every asset settles independently: one asset's failure never aborts
// or blocks another's processing. The returned Result always describes
// a finalized archive; the returned error is non-nil only when the
// sink rejects it (a DeliveryError). If every asset failed the
// delivered archive is valid and empty, and the zero success count is
// the caller's signal of total failure.
func (e *Exporter) Export(ctx context.Context, batch []assets.Asset, opts assets.ExportOptions, filename string, sink Sink) (*Result, error) {
	start := time.Now()
	state := StatePending
	logging.Debug("Export job %s: %s", filename, state)

	metrics.ExportBatchesTotal.Inc()
	metrics.ExportsInProgress.Inc()
	defer metrics.ExportsInProgress.Dec()
	metrics.ExportWorkers.Set(float64(e.numWorkers))

	logging.Info("Export starting: %d assets, tier=%s format=%s workers=%d",
		len(batch), opts.SizeTier, opts.Format, e.numWorkers)

	jobs := make(chan *assets.Asset)
	results := make(chan settled)

	state = StateRunning
	logging.Debug("Export job %s: %s", filename, state)
	var wg sync.WaitGroup
	for i := 0; i < e.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				if e.memory != nil {
					e.memory.WaitIfPaused()
				}
				results <- e.processAsset(ctx, a, opts)
			}
		}()
	}

	go func() {
		for i := range batch {
			jobs <- &batch[i]
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// Single collector goroutine context: archive inserts and the
	// outcome tally are serialized here, so entries never interleave.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	result := &Result{
		Filename:  filename,
		Requested: len(batch),
		Outcomes:  make([]Outcome, 0, len(batch)),
	}

	for s := range results {
		if s.outcome.Failed() {
			result.Failed++
			metrics.ExportAssetsTotal.WithLabelValues(string(s.outcome.Kind), "failed").Inc()
			metrics.ExportAssetFailures.WithLabelValues(s.outcome.ErrKind).Inc()
			logging.Warn("Export asset %d failed (%s): %v", s.outcome.AssetID, s.outcome.ErrKind, s.outcome.Err)
		} else {
			w, err := zw.Create(archiveFolder + s.entry.name)
			if err == nil {
				_, err = w.Write(s.entry.data)
			}
			if err != nil {
				// Archive container rejected the entry; demote to a
				// per-asset failure so the batch still finalizes.
				s.outcome.Err = &RetrievalError{AssetID: s.outcome.AssetID, Err: err}
				s.outcome.ErrKind = ErrKindRetrieval
				s.outcome.EntryName = ""
				result.Failed++
				metrics.ExportAssetsTotal.WithLabelValues(string(s.outcome.Kind), "failed").Inc()
				logging.Error("Export asset %d entry insert failed: %v", s.outcome.AssetID, err)
			} else {
				result.Succeeded++
				metrics.ExportAssetsTotal.WithLabelValues(string(s.outcome.Kind), "succeeded").Inc()
			}
		}
		result.Outcomes = append(result.Outcomes, s.outcome)
		if e.onResult != nil {
			e.onResult(s.outcome)
		}
	}

	state = StateFinalizing
	result.State = state
	if err := zw.Close(); err != nil {
		// Closing an in-memory zip only fails on a broken entry
		// writer, which the insert loop already demoted. Treat any
		// residue as a delivery problem.
		return result, &DeliveryError{Filename: filename, Err: fmt.Errorf("failed to finalize archive: %w", err)}
	}
	result.Bytes = buf.Len()
	metrics.ExportArchiveBytes.Observe(float64(buf.Len()))

	if err := sink.Deliver(filename, buf.Bytes()); err != nil {
		return result, &DeliveryError{Filename: filename, Err: err}
	}

	state = StateDelivered
	result.State = state
	result.Duration = time.Since(start)
	metrics.ExportBatchDuration.Observe(result.Duration.Seconds())

	logging.Info("Export delivered %s: %d/%d assets, %d bytes in %v",
		filename, result.Succeeded, result.Requested, result.Bytes, result.Duration)
	return result, nil
}

// processAsset runs one asset's pipeline: resolve, fetch, transcode
// (photos only), name. All failures are captured in the outcome.
func (e *Exporter) processAsset(ctx context.Context, a *assets.Asset, opts assets.ExportOptions) settled {
	outcome := Outcome{AssetID: a.ID, Kind: a.Kind}

	fail := func(err error) settled {
		outcome.Err = err
		outcome.ErrKind = errorKind(err)
		return settled{outcome: outcome}
	}

	url, err := assets.ResolveURL(a, opts.SizeTier)
	if err != nil {
		return fail(&ResolutionError{AssetID: a.ID, Err: err})
	}

	fetchCtx := ctx
	if e.assetTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.assetTimeout)
		defer cancel()
	}

	data, contentType, err := e.fetcher.Fetch(fetchCtx, url)
	if err != nil {
		return fail(&RetrievalError{AssetID: a.ID, URL: url, Err: err})
	}

	if a.Kind == assets.KindPhoto && e.transcoder != nil {
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		converted, err := e.transcoder.Transcode(data, contentType, opts.Format)
		if err != nil {
			return fail(&TranscodeError{AssetID: a.ID, Err: err})
		}
		data = converted
	}

	outcome.EntryName = assets.EntryName(a, opts.Format)
	return settled{outcome: outcome, entry: &entry{name: outcome.EntryName, data: data}}
}
