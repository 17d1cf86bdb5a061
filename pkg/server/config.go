package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/metrics"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// Page is one mounted template: the parsed tree and the VM bound to it.
type Page struct {
	// VM is the view model.
	VM *vbind.VM

	// Tree is the whole parsed template.
	Tree *vdom.VNode

	// Selector is the root selector. Live updates replace the element it
	// matches; an empty selector means the document body.
	Selector string
}

// El returns the node live updates render: the node Selector matches, or
// the whole tree.
func (p *Page) El() *vdom.VNode {
	if p.Selector != "" {
		if n := vdom.Query(p.Tree, p.Selector); n != nil {
			return n
		}
	}
	return p.Tree
}

// MountFunc builds a fresh Page. It is called once per HTTP render and once
// per live session.
type MountFunc func(ctx context.Context) (*Page, error)

// Config configures the preview server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// Mount builds pages. Required.
	Mount MountFunc

	// Render configures HTML output. Hydration attributes are always on.
	Render render.RendererConfig

	// Metrics records session activity. Nil disables recording.
	Metrics *metrics.Metrics

	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Tracer traces each session message. Default is the global provider's
	// "vbind" tracer.
	Tracer trace.Tracer

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// CheckOrigin validates websocket origins. Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	ReadBufferSize  int
	WriteBufferSize int

	// WriteTimeout bounds each websocket write.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            "localhost:3000",
		CheckOrigin:     SameOriginCheck,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = defaults.CheckOrigin
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = defaults.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = defaults.WriteBufferSize
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	c.Render.HydrationAttrs = true
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return originURL.Host == host
}
