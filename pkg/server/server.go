package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// WebSocketPath is where live sessions connect.
const WebSocketPath = "/_vbind/ws"

// Server serves a template over HTTP and keeps one live VM per websocket.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader
	renderer *render.Renderer
	tracer   trace.Tracer
	logger   *slog.Logger

	sessions map[string]*Session
	mu       sync.RWMutex

	httpServer *http.Server
}

// New creates a Server.
func New(config Config) *Server {
	config.applyDefaults()

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer("vbind")
	}

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		renderer: render.NewRenderer(config.Render),
		tracer:   tracer,
		logger:   logger.With("component", "server"),
		sessions: make(map[string]*Session),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Tracing(s.tracer, WebSocketPath, "/healthz"))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get(WebSocketPath, s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handlePage mounts a fresh page and renders it with the client script.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.config.Mount(r.Context())
	if err != nil {
		s.logger.Error("mount failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	vdom.AssignHIDs(page.Tree, vdom.NewHIDGenerator())
	s.logger.Debug("page mounted", "vm", page.VM.ID(), "interactive", vdom.CountInteractive(page.Tree))

	body, err := s.renderer.RenderToString(page.Tree)
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	script, err := clientScript(page.Selector)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if isDocument(page.Tree) {
		body = "<!DOCTYPE html>" + body
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, injectScript(body, script))
}

func isDocument(tree *vdom.VNode) bool {
	for _, c := range tree.Children {
		if c.Kind == vdom.KindElement {
			return c.Tag == "html"
		}
	}
	return false
}

// injectScript places script before </body>, or appends it.
func injectScript(html, script string) string {
	if i := strings.LastIndex(html, "</body>"); i >= 0 {
		return html[:i] + script + html[i:]
	}
	return html + script
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Metrics.RecordWebSocketError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	page, err := s.config.Mount(r.Context())
	if err != nil {
		s.logger.Error("mount failed", "error", err)
		data, _ := json.Marshal(ServerMessage{Type: MessageError, Error: err.Error()})
		conn.WriteMessage(websocket.TextMessage, data)
		conn.Close()
		return
	}
	vdom.AssignHIDs(page.Tree, vdom.NewHIDGenerator())

	sess := newSession(uuid.NewString(), conn, page, s)
	s.addSession(sess)
	defer s.removeSession(sess)

	sess.run(r.Context())
}

func (s *Server) addSession(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.config.Metrics.SessionStarted()
	s.logger.Info("session started", "session_id", sess.ID)
}

func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	s.config.Metrics.SessionEnded()
	s.logger.Info("session ended", "session_id", sess.ID)
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.config.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown() error {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		sess.Close()
	}

	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
