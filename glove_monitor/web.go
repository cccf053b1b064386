package main

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// webRenderer keeps the latest frame for HTTP readers. Render runs on the
// presentation loop; handlers run on server goroutines.
type webRenderer struct {
	mu   sync.RWMutex
	view View
}

func (w *webRenderer) Render(v View) {
	w.mu.Lock()
	w.view = v
	w.mu.Unlock()
}

func (w *webRenderer) Snapshot() View {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.view
}

func newRouter(w *webRenderer) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(rw http.ResponseWriter, _ *http.Request) {
		rw.Write([]byte("OK\n"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/state", w.handleState).Methods(http.MethodGet)
	r.HandleFunc("/", handleIndex).Methods(http.MethodGet)
	return r
}

func (w *webRenderer) handleState(rw http.ResponseWriter, _ *http.Request) {
	view := w.Snapshot()
	// Keep empty panels as [] rather than null for the page script
	if view.Lines == nil {
		view.Lines = []string{}
	}
	if view.History == nil {
		view.History = []HistoryEntry{}
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(rw).Encode(view); err != nil {
		slog.Warn("encoding state failed", "err", err)
	}
}

func handleIndex(rw http.ResponseWriter, _ *http.Request) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(rw, nil); err != nil {
		slog.Warn("rendering index failed", "err", err)
	}
}

// serveWeb runs the web view until ctx is cancelled
func serveWeb(ctx context.Context, addr string, w *webRenderer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(w),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web view listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>GloveX+ Serial Monitor</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; margin: 1em; }
.cols { display: flex; gap: 2em; }
.col { flex: 1; }
pre { background: #000; padding: 0.5em; min-height: 10em; }
#gesture { text-align: center; font-size: 2em; color: #FFD700; padding: 0.5em; }
#status { color: #0ff; }
</style>
</head>
<body>
<h1>🧤 GloveX+ Serial Monitor</h1>
<div id="status">connecting...</div>
<div class="cols">
  <div class="col"><h2>📡 Live Serial Monitor</h2><pre id="feed"></pre></div>
  <div class="col">
    <h2>🖐 Detected Gesture</h2><div id="gesture">-</div>
    <h2>🕒 Gesture History</h2><pre id="history"></pre>
  </div>
</div>
<script>
function pad(n) { return String(n).padStart(2, "0"); }
function clock(iso) { const d = new Date(iso); return pad(d.getHours()) + ":" + pad(d.getMinutes()) + ":" + pad(d.getSeconds()); }
async function refresh() {
  try {
    const res = await fetch("/api/state", {cache: "no-store"});
    const v = await res.json();
    document.getElementById("feed").textContent = v.lines.join("\n");
    document.getElementById("gesture").textContent = v.gesture || "-";
    document.getElementById("history").textContent = v.history.map(h => clock(h.time) + " - " + h.gesture).join("\n");
    let status = v.connected ? "Connected to " + v.port + " at " + v.baud_rate + " baud" : "Not connected";
    if (v.muted) status += " (muted)";
    if (v.warning) status += " | " + v.warning;
    document.getElementById("status").textContent = status;
  } catch (e) {
    document.getElementById("status").textContent = "monitor unreachable";
  }
}
setInterval(refresh, 500);
refresh();
</script>
</body>
</html>
`))
