package devapi

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/idempotency"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader is set on responses served from the idempotency store.
	ReplayedHeader = "Idempotent-Replayed"
)

// idempotent replays the stored 2xx response of a request repeated with the same
// Idempotency-Key, path and body. Reusing a key with a different body is a 409.
// Requests without the header pass through. Must run after requireUser.
func (s *Server) idempotent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
		if key == "" || s.idem == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		u, ok := UserFromContext(ctx)
		if !ok {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeInvalid(w, "body", err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		bodyHash := idempotency.HashBody(body)

		metaFP := idempotency.Fingerprint{Key: key, User: u.ID, Method: r.Method, Path: r.URL.Path}
		meta, ok, err := s.idem.Get(ctx, metaFP)
		if err != nil {
			s.writeError(w, r, err, "")
			return
		}
		if ok && string(meta.Body) != bodyHash {
			writeDetail(w, http.StatusConflict, "Idempotency key reused with a different request body")
			return
		}
		if !ok {
			meta := idempotency.Record{ContentType: "text/plain", Body: []byte(bodyHash), CreatedAt: s.clk.Now()}
			if err := s.idem.Put(ctx, metaFP, meta); err != nil {
				s.log.Printf("devapi: idempotency put %s %s for key %s: %v", r.Method, r.URL.Path, key, err)
			}
		}

		respFP := metaFP.WithBody(bodyHash)
		if rec, ok, err := s.idem.Get(ctx, respFP); err == nil && ok && rec.Replayable() {
			s.log.Printf("devapi: replaying %s %s for key %s", r.Method, r.URL.Path, key)
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set(ReplayedHeader, "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}

		var buf bytes.Buffer
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&buf)
		next.ServeHTTP(ww, r)

		rec := idempotency.Record{
			StatusCode:  ww.Status(),
			ContentType: ww.Header().Get("Content-Type"),
			Body:        buf.Bytes(),
			CreatedAt:   s.clk.Now(),
		}
		// The response is already written; a failed put only loses the replay.
		if rec.Replayable() {
			if err := s.idem.Put(ctx, respFP, rec); err != nil {
				s.log.Printf("devapi: idempotency put %s %s for key %s: %v", r.Method, r.URL.Path, key, err)
			}
		}
	})
}
