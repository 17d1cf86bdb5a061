package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/vdom"
	"github.com/vango-dev/vbind/pkg/view"
)

// Session is one live websocket bound to its own Page.
type Session struct {
	ID string

	conn   *websocket.Conn
	page   *Page
	hids   map[string]*vdom.VNode // fixed after mount; compiles never add nodes
	server *Server
	logger *slog.Logger

	// mu serializes VM access; a VM is single-threaded.
	mu        sync.Mutex
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, page *Page, s *Server) *Session {
	return &Session{
		ID:     id,
		conn:   conn,
		page:   page,
		hids:   vdom.CollectHIDs(page.Tree),
		server: s,
		logger: s.logger.With("session_id", id),
	}
}

// run sends the first render, then handles messages until the connection
// closes.
func (s *Session) run(ctx context.Context) {
	defer s.Close()

	if err := s.sendRender(); err != nil {
		s.logger.Error("initial render failed", "error", err)
		return
	}

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.server.config.Metrics.RecordWebSocketError("read")
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.server.config.Metrics.RecordWebSocketError("decode")
			s.logger.Warn("message decode error", "error", err)
			s.sendError(fmt.Errorf("invalid message: %w", err))
			continue
		}

		if err := s.handle(ctx, msg); err != nil {
			s.sendError(err)
			continue
		}
		if err := s.sendRender(); err != nil {
			s.logger.Error("render failed", "error", err)
			return
		}
	}
}

// handle applies one client message to the page.
func (s *Session) handle(ctx context.Context, msg ClientMessage) (err error) {
	_, span := s.server.tracer.Start(ctx, "vbind."+msg.Type,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("vbind.session_id", s.ID),
			attribute.String("vbind.message_type", msg.Type),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		s.server.config.Metrics.ObserveMessage(msg.Type, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case MessageEvent:
		span.SetAttributes(
			attribute.String("vbind.hid", msg.HID),
			attribute.String("vbind.event", msg.Event),
		)
		node := s.hids[msg.HID]
		if node == nil {
			return fmt.Errorf("no element with hid %q", msg.HID)
		}
		return vdom.Dispatch(node, view.Event{Type: msg.Event, Value: reactive.Stringify(msg.Value)})
	case MessageSet:
		span.SetAttributes(attribute.String("vbind.path", msg.Path))
		return s.page.VM.SetPath(msg.Path, msg.Value)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// HTML renders the session's root.
func (s *Session) HTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server.renderer.RenderToString(s.page.El())
}

func (s *Session) sendRender() error {
	html, err := s.HTML()
	if err != nil {
		return err
	}
	return s.send(ServerMessage{Type: MessageRender, HTML: html})
}

func (s *Session) sendError(err error) {
	if werr := s.send(ServerMessage{Type: MessageError, Error: err.Error()}); werr != nil {
		s.logger.Error("send error failed", "error", werr)
	}
}

func (s *Session) send(msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.server.config.Metrics.RecordWebSocketError("write")
		return err
	}
	return nil
}

// Close closes the connection. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.conn.Close()
	})
}
