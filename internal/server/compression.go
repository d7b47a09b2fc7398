package server

import (
	"compress/gzip"
	"net/http"
	"strings"

	"groundwork/internal/constants"
)

// GzipCompress transparently gzips API responses when the client accepts it.
// Responses are buffered up to the size threshold: anything smaller is sent
// raw since compressing tiny payloads costs more than it saves. Streaming
// handlers that call Flush bypass compression entirely.
func GzipCompress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") ||
			!strings.Contains(r.Header.Get(constants.HeaderAcceptEncoding), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(gw, r)
		gw.finish()
	})
}

// gzipResponseWriter buffers the response until it can decide whether
// compression is worthwhile. Once the buffered size crosses the threshold it
// switches to a streaming gzip writer; Flush disables compression and drains
// the buffer raw.
type gzipResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         []byte
	gz          *gzip.Writer
	passthrough bool // compression ruled out, writes go straight through
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	if w.gz != nil {
		return w.gz.Write(b)
	}

	w.buf = append(w.buf, b...)
	if len(w.buf) >= constants.CompressionMinSizeBytes {
		if w.compressible() {
			w.startGzip()
		} else {
			w.drainRaw()
		}
	}
	return len(b), nil
}

// Flush is called by streaming handlers (SSE). Compression would hold bytes
// back in the gzip window, so the first Flush switches to raw passthrough.
func (w *gzipResponseWriter) Flush() {
	if w.gz == nil && !w.passthrough {
		w.drainRaw()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// compressible reports whether the response should be gzipped based on its
// declared content type and encoding.
func (w *gzipResponseWriter) compressible() bool {
	if w.Header().Get(constants.HeaderContentEncoding) != "" {
		return false
	}
	ct := w.Header().Get(constants.HeaderContentType)
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = ct[:idx]
	}
	ct = strings.TrimSpace(ct)
	switch ct {
	case "application/json", "text/plain", "text/html", "text/css",
		"application/javascript", "text/javascript", "image/svg+xml":
		return true
	}
	return false
}

func (w *gzipResponseWriter) startGzip() {
	w.Header().Set(constants.HeaderContentEncoding, "gzip")
	w.Header().Set(constants.HeaderVary, constants.HeaderAcceptEncoding)
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.status)
	w.gz = gzip.NewWriter(w.ResponseWriter)
	w.gz.Write(w.buf)
	w.buf = nil
}

func (w *gzipResponseWriter) drainRaw() {
	w.passthrough = true
	w.ResponseWriter.WriteHeader(w.status)
	if len(w.buf) > 0 {
		w.ResponseWriter.Write(w.buf)
		w.buf = nil
	}
}

// finish flushes whatever path the response took.
func (w *gzipResponseWriter) finish() {
	switch {
	case w.gz != nil:
		w.gz.Close()
	case !w.passthrough:
		// Response stayed under the threshold (or nothing was written).
		w.ResponseWriter.WriteHeader(w.status)
		if len(w.buf) > 0 {
			w.ResponseWriter.Write(w.buf)
		}
	}
}
