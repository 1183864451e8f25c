package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// errNoBitstreamDecoder is reported with a 501 when no Parser is wired
// (cmd/serve.go wires none), or when a Parser returns it: decoding a TF2
// demo's wire bytes is handled by an external
// demuxer this package does not embed, so the upload endpoint accepts
// files, hashes them, and reports this clearly instead of pretending to
// parse them.
var errNoBitstreamDecoder = errors.New("no bitstream decoder wired")

// uploadResponse is the JSON envelope returned for every upload attempt,
// successful or not, so a client can always correlate a request id and a
// content hash with a server-side log line.
type uploadResponse struct {
	RequestID string `json:"request_id"`
	Hash      string `json:"hash,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Summary   any    `json:"summary,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFrom(r.Context())
	demosReceived.Inc()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		demosRejected.Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, uploadResponse{RequestID: reqID, Error: "upload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, uploadResponse{RequestID: reqID, Error: "malformed multipart upload"})
		return
	}

	file, header, err := r.FormFile("demo")
	if err != nil {
		demosRejected.Inc()
		writeJSON(w, http.StatusBadRequest, uploadResponse{RequestID: reqID, Error: "missing \"demo\" form file"})
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		demosRejected.Inc()
		writeJSON(w, http.StatusBadRequest, uploadResponse{RequestID: reqID, Error: "failed to read upload"})
		return
	}

	hash, err := DemoHash(bytes.NewReader(body))
	if err != nil {
		demosRejected.Inc()
		writeJSON(w, http.StatusInternalServerError, uploadResponse{RequestID: reqID, Error: "failed to hash upload"})
		return
	}

	s.logger.Info("demo received",
		zap.String("request_id", reqID),
		zap.String("filename", header.Filename),
		zap.String("hash", hash),
		zap.Int("bytes", len(body)),
	)

	if s.parser == nil {
		writeJSON(w, http.StatusNotImplemented, uploadResponse{
			RequestID: reqID, Hash: hash, Filename: header.Filename,
			Error: errNoBitstreamDecoder.Error(),
		})
		return
	}

	start := time.Now()
	summary, err := s.parser.Parse(header.Filename, body)
	parseDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		demosRejected.Inc()
		status := http.StatusUnprocessableEntity
		if errors.Is(err, errNoBitstreamDecoder) {
			status = http.StatusNotImplemented
		}
		writeJSON(w, status, uploadResponse{RequestID: reqID, Hash: hash, Filename: header.Filename, Error: err.Error()})
		return
	}
	demosParsed.Inc()

	if s.store != nil {
		if err := s.store.SaveSummary(hash, header.Filename, summary); err != nil {
			s.logger.Error("failed to persist summary", zap.String("request_id", reqID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, uploadResponse{RequestID: reqID, Hash: hash, Filename: header.Filename, Summary: summary})
}
