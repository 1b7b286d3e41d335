// Package transport wires internal/room and internal/registry to the
// outside world: a chi-routed request/response RPC listener and a
// nhooyr.io/websocket PlayerUpdate stream listener, one process
// offering both per §6's two-port contract.
//
// Grounded on hakimelghazi-exchange-core/cmd/server/main.go's router
// construction and "hygiene stack" (RequestID, RealIP, Recoverer), with
// its plain middleware.Logger swapped for a slog-based request logger
// in the idiom of Bboissen-trador_tool/api-gateway's structured
// logging, and its JSON problem-response helper kept as-is for
// transport-level failures the wire protocol has no vocabulary for.
package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/figgie-game/figgie/internal/registry"
)

// Server owns both listeners and the session store they share.
type Server struct {
	registry *registry.Registry
	sessions *sessionStore
	logger   *slog.Logger
	webFS    http.FileSystem // nil disables the static web UI route
}

// New constructs a Server. webFS, if non-nil, is served at "/" on the
// RPC listener per §6's boundary-only static web UI.
func New(reg *registry.Registry, logger *slog.Logger, webFS http.FileSystem) *Server {
	return &Server{registry: reg, sessions: newSessionStore(), logger: logger, webFS: webFS}
}

// slogMiddleware logs each request's method, path, status, and latency
// at Info level once it completes, in the teacher's request-scoped
// hygiene-stack spirit but through the structured logger instead of
// chi's plain middleware.Logger.
func slogMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// rpcRouter builds the request/response RPC listener's router, served
// on §6's default port 58828.
func (s *Server) rpcRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(slogMiddleware(s.logger))
	r.Use(middleware.Timeout(5 * time.Second))

	r.Post("/rpc/login", s.handleLogin)
	r.Post("/rpc/start-playing", s.withSession(s.handleStartPlaying))
	r.Post("/rpc/ready", s.withSession(s.handleSetReady))
	r.Post("/rpc/order", s.withSession(s.handlePlaceOrder))
	r.Post("/rpc/cancel", s.withSession(s.handleCancelOrder))
	r.Post("/rpc/cxl-all", s.withSession(s.handleCancelAll))
	r.Post("/rpc/chat", s.withSession(s.handleChat))
	r.Post("/rpc/get-update", s.withSession(s.handleGetUpdate))
	r.Post("/rpc/time-left", s.withSession(s.handleTimeLeft))

	if s.webFS != nil {
		r.Handle("/*", http.FileServer(s.webFS))
	}
	return r
}

// streamRouter builds the PlayerUpdate stream listener's router,
// served on §6's default port 58829.
func (s *Server) streamRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(slogMiddleware(s.logger))
	r.Get("/stream", s.serveStream)
	return r
}

// ListenAndServe runs both listeners until ctx is cancelled, returning
// the first error either one produces (including a graceful-shutdown
// error, which callers should treat as non-fatal if ctx was in fact
// cancelled).
func (s *Server) ListenAndServe(ctx context.Context, rpcAddr, wsAddr string) error {
	rpcSrv := &http.Server{Addr: rpcAddr, Handler: s.rpcRouter()}
	wsSrv := &http.Server{Addr: wsAddr, Handler: s.streamRouter()}

	errc := make(chan error, 2)
	go func() { errc <- rpcSrv.ListenAndServe() }()
	go func() { errc <- wsSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rpcSrv.Shutdown(shutdownCtx)
		_ = wsSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		return err
	}
}
