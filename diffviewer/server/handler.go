// Package server provides the HTTP API of the diff viewer.
//
// The API has the following endpoints:
//
//	POST /api/stats       statistics for the documents in the request body
//	GET  /api/documents   the current documents and their statistics
//	GET  /api/sample      the sample documents and their statistics
//	GET  /healthz         liveness check
//
// Documents are posted either as a JSON object {"original": "...", "changed": "..."} or as a
// multipart form with the fields "original" and "changed", which may be file uploads.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"flo.znkr.io/diffviewer/diff"
	"flo.znkr.io/diffviewer/input"
	"flo.znkr.io/diffviewer/sample"
	"flo.znkr.io/diffviewer/statcache"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Options configure the request handling.
type Options struct {
	Input     input.Options    // Limits and decoding of posted documents
	Cache     *statcache.Cache // May be nil to disable caching
	Documents *input.Pair      // Served at /api/documents, defaults to the sample documents
}

type handler struct {
	router *mux.Router
	opts   Options
	docs   atomic.Pointer[input.Pair]
}

func newHandler(opts Options) *handler {
	h := &handler{opts: opts}
	docs := opts.Documents
	if docs == nil {
		p := sample.Pair()
		docs = &p
	}
	h.docs.Store(docs)

	r := mux.NewRouter()
	r.HandleFunc("/api/stats", h.stats).Methods(http.MethodPost)
	r.HandleFunc("/api/documents", h.documents).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/api/sample", h.sample).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet, http.MethodHead)
	h.router = r
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
	h.router.ServeHTTP(rw, req)
	logResponse(rw, req, time.Since(start))
}

// DocumentsResponse is the response of /api/documents and /api/sample.
type DocumentsResponse struct {
	input.Pair
	Stats diff.Stats `json:"stats"`
}

func (h *handler) stats(w http.ResponseWriter, req *http.Request) {
	p, err := h.readPair(w, req)
	if err != nil {
		writeError(w, req, statusOf(err), err)
		return
	}
	writeJSON(w, req, h.opts.Cache.Stats(p.Original, p.Changed))
}

func (h *handler) documents(w http.ResponseWriter, req *http.Request) {
	p := h.docs.Load()
	writeJSON(w, req, DocumentsResponse{
		Pair:  *p,
		Stats: h.opts.Cache.Stats(p.Original, p.Changed),
	})
}

func (h *handler) sample(w http.ResponseWriter, req *http.Request) {
	p := sample.Pair()
	writeJSON(w, req, DocumentsResponse{
		Pair:  p,
		Stats: h.opts.Cache.Stats(p.Original, p.Changed),
	})
}

func (h *handler) health(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodGet {
		io.WriteString(w, "ok")
	}
}

var errUnsupportedMediaType = errors.New("unsupported media type")

func (h *handler) readPair(w http.ResponseWriter, req *http.Request) (input.Pair, error) {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil {
		return input.Pair{}, fmt.Errorf("%w: %v", errUnsupportedMediaType, err)
	}

	switch mediaType {
	case "application/json":
		return h.readJSON(w, req)
	case "multipart/form-data":
		return h.readMultipart(req)
	default:
		return input.Pair{}, fmt.Errorf("%w: %s", errUnsupportedMediaType, mediaType)
	}
}

func (h *handler) readJSON(w http.ResponseWriter, req *http.Request) (input.Pair, error) {
	body := io.Reader(req.Body)
	if limit := h.opts.Input.MaxSize; limit > 0 {
		// Escaping can blow up the size of a document in JSON considerably. The exact limits are
		// enforced after decoding.
		body = http.MaxBytesReader(w, req.Body, 2*6*limit+4096)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return input.Pair{}, input.ErrTooLarge
		}
		return input.Pair{}, fmt.Errorf("reading request: %v", err)
	}
	if !utf8.Valid(raw) {
		return input.Pair{}, fmt.Errorf("decoding request: %w", input.ErrNonText)
	}

	var p input.Pair
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return input.Pair{}, fmt.Errorf("decoding request: %v", err)
	}
	if dec.More() {
		return input.Pair{}, errors.New("decoding request: trailing data after document")
	}

	for _, side := range input.Sides {
		text := p.Get(side)
		if limit := h.opts.Input.MaxSize; limit > 0 && int64(len(text)) > limit {
			return input.Pair{}, fmt.Errorf("%v document: %w", side, input.ErrTooLarge)
		}
		if err := input.Check(text); err != nil {
			return input.Pair{}, fmt.Errorf("%v document: %w", side, err)
		}
	}
	return p, nil
}

func (h *handler) readMultipart(req *http.Request) (input.Pair, error) {
	mr, err := req.MultipartReader()
	if err != nil {
		return input.Pair{}, fmt.Errorf("reading form: %v", err)
	}

	var p input.Pair
	var seen [len(input.Sides)]bool
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return input.Pair{}, fmt.Errorf("reading form: %v", err)
		}

		side, err := input.ParseSide(part.FormName())
		if err != nil {
			return input.Pair{}, fmt.Errorf("reading form: %v", err)
		}
		if seen[side] {
			return input.Pair{}, fmt.Errorf("reading form: duplicate %v document", side)
		}
		seen[side] = true

		text, err := input.Read(part, h.opts.Input)
		if err != nil {
			return input.Pair{}, fmt.Errorf("%v document %s: %w", side, part.FileName(), err)
		}
		p.Set(side, text)
	}
	return p, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, input.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, input.ErrNonText), errors.Is(err, errUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, req *http.Request, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(w, req, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(b); err != nil {
		logrus.Errorf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, req *http.Request, status int, err error) {
	if rw, ok := w.(*responseWriter); ok {
		rw.err = err
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	if req.Method != http.MethodHead {
		io.WriteString(w, err.Error())
	}
}

// responseWriter records what was written for logging.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written int64
	err     error
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

func logResponse(w *responseWriter, req *http.Request, spent time.Duration) {
	switch {
	case w.status >= http.StatusInternalServerError:
		logrus.Errorf("[%s] %s %s status: %d written: %d spent: %v message: %v", req.RemoteAddr, req.Method, req.RequestURI, w.status, w.written, spent, w.err)
	case w.err != nil:
		logrus.Warnf("[%s] %s %s status: %d written: %d spent: %v message: %v", req.RemoteAddr, req.Method, req.RequestURI, w.status, w.written, spent, w.err)
	default:
		logrus.Infof("[%s] %s %s status: %d written: %d spent: %v", req.RemoteAddr, req.Method, req.RequestURI, w.status, w.written, spent)
	}
}
