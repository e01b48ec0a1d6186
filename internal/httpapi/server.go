package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/kstaniek/go-aimms30-server/internal/logging"
	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
)

// NewRouter builds the read-only status router: GET /status returns the
// latest record for every packet type seen so far; GET /status/{type}
// returns one. Routing follows the teacher-adjacent cc-backend's
// gorilla/mux + gorilla/handlers stack (compression, CORS, access log).
func NewRouter(s *State, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.L()
	}
	r := mux.NewRouter()
	r.HandleFunc("/status", statusAllHandler(s)).Methods(http.MethodGet)
	r.HandleFunc("/status/{type}", statusOneHandler(s)).Methods(http.MethodGet)

	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet}),
		handlers.AllowedOrigins([]string{"*"}),
	))

	return handlers.CustomLoggingHandler(io.Discard, r, func(w io.Writer, p handlers.LogFormatterParams) {
		logger.Info("http_request",
			"method", p.Request.Method,
			"path", p.URL.Path,
			"status", p.StatusCode,
			"size", p.Size,
		)
	})
}

func statusAllHandler(s *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toJSONSnapshot(s.Snapshot()))
	}
}

func statusOneHandler(s *State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := telemetry.Type(mux.Vars(r)["type"])
		rec, ok := s.Get(t)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no record for type " + string(t)})
			return
		}
		writeJSON(w, http.StatusOK, toJSONRecord(rec))
	}
}

// jsonRecord is the wire shape for one record: flattened fields alongside
// the type tag, matching §6's "scalar fields by name" contract.
type jsonRecord map[string]any

func toJSONRecord(r telemetry.Record) jsonRecord {
	out := make(jsonRecord, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["type"] = string(r.Type)
	out["good_checksum"] = r.GoodChecksum
	return out
}

func toJSONSnapshot(snap map[telemetry.Type]telemetry.Record) map[string]jsonRecord {
	out := make(map[string]jsonRecord, len(snap))
	for t, r := range snap {
		out[string(t)] = toJSONRecord(r)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
