package streaming

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig() TimeoutWriterConfig {
	return TimeoutWriterConfig{
		WriteTimeout: 2 * time.Second,
		IdleTimeout:  0,
		ChunkSize:    0,
	}
}

func TestWritePassthrough(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := NewTimeoutWriter(context.Background(), rec, testConfig())
	defer tw.Close()

	data := []byte("PK\x03\x04 archive bytes")
	n, err := tw.Write(data)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("wrote %d bytes, want %d", n, len(data))
	}
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Error("response body does not match written data")
	}

	written, _ := tw.Stats()
	if written != int64(len(data)) {
		t.Errorf("Stats bytesWritten = %d, want %d", written, len(data))
	}
}

func TestWriteChunked(t *testing.T) {
	rec := httptest.NewRecorder()
	cfg := testConfig()
	cfg.ChunkSize = 8

	tw := NewTimeoutWriter(context.Background(), rec, cfg)
	defer tw.Close()

	data := bytes.Repeat([]byte("monogrid"), 10) // 80 bytes, 10 chunks
	n, err := tw.Write(data)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("wrote %d bytes, want %d", n, len(data))
	}
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Error("chunked write corrupted the payload")
	}
	if !rec.Flushed {
		t.Error("expected a flush between chunks")
	}
}

func TestWriteAfterClose(t *testing.T) {
	tw := NewTimeoutWriter(context.Background(), httptest.NewRecorder(), testConfig())

	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if _, err := tw.Write([]byte("late")); !errors.Is(err, ErrStreamCanceled) {
		t.Errorf("Write after Close = %v, want ErrStreamCanceled", err)
	}
}

func TestClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tw := NewTimeoutWriter(ctx, httptest.NewRecorder(), testConfig())
	defer tw.Close()

	cancel()

	if _, err := tw.Write([]byte("data")); !errors.Is(err, ErrClientGone) {
		t.Errorf("Write after disconnect = %v, want ErrClientGone", err)
	}
}

// blockingWriter simulates a client that stops draining the response.
type blockingWriter struct {
	header  http.Header
	release chan struct{}
}

func newBlockingWriter() *blockingWriter {
	return &blockingWriter{header: make(http.Header), release: make(chan struct{})}
}

func (w *blockingWriter) Header() http.Header { return w.header }
func (w *blockingWriter) WriteHeader(int)     {}
func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.release
	return len(p), nil
}

func TestWriteTimeout(t *testing.T) {
	w := newBlockingWriter()
	defer close(w.release)

	cfg := testConfig()
	cfg.WriteTimeout = 50 * time.Millisecond

	tw := NewTimeoutWriter(context.Background(), w, cfg)
	defer tw.Close()

	done := make(chan error, 1)
	go func() {
		_, err := tw.Write([]byte("stalled"))
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrWriteTimeout) {
			t.Errorf("Write = %v, want ErrWriteTimeout", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Write never returned")
	}
}

func TestIdleTimeoutCancelsStream(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTimeout = 40 * time.Millisecond

	tw := NewTimeoutWriter(context.Background(), httptest.NewRecorder(), cfg)
	defer tw.Close()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-tw.ctx.Done():
			return // idle checker canceled the stream
		case <-deadline:
			t.Fatal("idle checker never canceled the stream")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestMaxDuration(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDuration = time.Nanosecond

	tw := NewTimeoutWriter(context.Background(), httptest.NewRecorder(), cfg)
	defer tw.Close()

	time.Sleep(time.Millisecond)

	if _, err := tw.Write([]byte("x")); !errors.Is(err, ErrWriteTimeout) {
		t.Errorf("Write past MaxDuration = %v, want ErrWriteTimeout", err)
	}
}
