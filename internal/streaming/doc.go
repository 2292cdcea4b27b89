// Package streaming guards archive downloads against slow and
// disappearing clients.
//
// Export archives are written straight into the HTTP response, and a
// stalled client would otherwise pin a connection (and the response
// buffer) indefinitely. TimeoutWriter wraps the http.ResponseWriter
// with a per-write timeout, an idle timeout between writes, and
// chunked flushing so browsers show download progress on large
// archives.
package streaming
