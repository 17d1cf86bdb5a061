package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	verrors "github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/view"
)

// Default tracer name for compile spans.
const defaultTracerName = "vbind"

// MethodFunc is a method resolved from scope, ready to receive the literal
// argument from the template and the native event.
type MethodFunc func(arg string, ev view.Event) error

// Scope is what the compiler binds against.
type Scope interface {
	// Resolve reads the current value at a dotted path.
	Resolve(path string) (any, error)

	// SetPath writes a value at a dotted path.
	SetPath(path string, value any) error

	// Method looks up a method by name.
	Method(name string) (MethodFunc, bool)
}

// Observer is told about every compile. Used for metrics.
type Observer interface {
	ObserveCompile(bindings, handlers int, elapsed time.Duration, err error)
}

// Config configures a Compiler. The zero value is usable.
type Config struct {
	// DirectivePrefix marks value directives. Default "v-".
	DirectivePrefix string

	// ModelDirective is the two-way directive. Default "v-model".
	ModelDirective string

	// EventPrefix marks event directives. Default "@".
	EventPrefix string

	// Logger receives debug records for each binding. Default slog.Default().
	Logger *slog.Logger

	// Tracer traces each compile. Default is the global provider's "vbind"
	// tracer.
	Tracer trace.Tracer

	// Observer is told about each compile. Optional.
	Observer Observer
}

// BindingKind tells which view position a binding renders.
type BindingKind uint8

const (
	BindValue BindingKind = iota // element value slot
	BindText                     // text node content
)

// String returns the string representation of the BindingKind.
func (k BindingKind) String() string {
	switch k {
	case BindValue:
		return "value"
	case BindText:
		return "text"
	default:
		return "unknown"
	}
}

// Binding links one view position to one registry subscriber.
type Binding struct {
	Kind       BindingKind
	Path       string
	Directive  string // attribute name for value bindings
	TwoWay     bool
	Node       view.Node
	Subscriber *reactive.Subscriber
}

// Handler is an event listener attached from an event directive.
type Handler struct {
	Event string
	Call  Call
	Node  view.Node
}

// Result lists what a compile created.
type Result struct {
	Bindings []Binding
	Handlers []Handler
}

// Compiler walks view trees and creates bindings against one scope and
// registry.
type Compiler struct {
	scope    Scope
	registry *reactive.Registry
	config   Config
}

// New creates a Compiler.
func New(scope Scope, registry *reactive.Registry, config Config) *Compiler {
	if config.DirectivePrefix == "" {
		config.DirectivePrefix = "v-"
	}
	if config.ModelDirective == "" {
		config.ModelDirective = config.DirectivePrefix + "model"
	}
	if config.EventPrefix == "" {
		config.EventPrefix = "@"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer(defaultTracerName)
	}
	return &Compiler{
		scope:    scope,
		registry: registry,
		config:   config,
	}
}

// Compile binds everything under root. root must implement view.Host.
// On error the children stay detached.
func (c *Compiler) Compile(ctx context.Context, root view.Node) (*Result, error) {
	start := time.Now()
	_, span := c.config.Tracer.Start(ctx, "vbind.compile", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	res := &Result{}
	err := c.compile(root, res)

	span.SetAttributes(
		attribute.Int("vbind.bindings", len(res.Bindings)),
		attribute.Int("vbind.handlers", len(res.Handlers)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if c.config.Observer != nil {
		c.config.Observer.ObserveCompile(len(res.Bindings), len(res.Handlers), time.Since(start), err)
	}
	return res, err
}

func (c *Compiler) compile(root view.Node, res *Result) error {
	host, ok := root.(view.Host)
	if !ok {
		return verrors.New("E013").WithTarget(fmt.Sprintf("%T", root))
	}

	holder := host.DetachChildren()
	if err := c.walk(holder.ChildNodes(), res); err != nil {
		return err
	}
	host.AppendChildren(holder)
	return nil
}

func (c *Compiler) walk(nodes []view.Node, res *Result) error {
	for _, node := range nodes {
		switch node.Kind() {
		case view.KindElement:
			if el, ok := view.AsElement(node); ok {
				if err := c.compileElement(el, res); err != nil {
					return err
				}
			}
		case view.KindText:
			if t, ok := view.AsText(node); ok {
				if err := c.compileText(t, res); err != nil {
					return err
				}
			}
		}
		if err := c.walk(node.ChildNodes(), res); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileElement(el view.Element, res *Result) error {
	for _, attr := range el.Attributes() {
		switch {
		case strings.HasPrefix(attr.Name, c.config.DirectivePrefix):
			if err := c.bindValue(el, attr, res); err != nil {
				return err
			}
		case strings.HasPrefix(attr.Name, c.config.EventPrefix):
			if err := c.bindEvent(el, attr, res); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) bindValue(el view.Element, attr view.Attr, res *Result) error {
	path := strings.TrimSpace(attr.Value)
	value, err := c.scope.Resolve(path)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", attr.Name, attr.Value, err)
	}

	sub := c.registry.Add(path, func(v any) error {
		el.SetValue(reactive.Stringify(v))
		return nil
	})
	el.SetValue(reactive.Stringify(value))

	twoWay := attr.Name == c.config.ModelDirective
	if twoWay {
		el.AddEventListener("input", func(ev view.Event) error {
			return c.scope.SetPath(path, ev.Value)
		})
	}

	res.Bindings = append(res.Bindings, Binding{
		Kind:       BindValue,
		Path:       path,
		Directive:  attr.Name,
		TwoWay:     twoWay,
		Node:       el,
		Subscriber: sub,
	})
	c.config.Logger.Debug("bind value", "directive", attr.Name, "path", path, "two_way", twoWay)
	return nil
}

func (c *Compiler) bindEvent(el view.Element, attr view.Attr, res *Result) error {
	event := strings.TrimPrefix(attr.Name, c.config.EventPrefix)
	if event == "" {
		return verrors.New("E010").WithTarget(attr.Name).
			WithSuggestion("name the event after the prefix, e.g. @click").
			Wrap(ErrMalformedCall)
	}

	call, err := ParseCall(attr.Value)
	if err != nil {
		return err
	}
	method, ok := c.scope.Method(call.Method)
	if !ok {
		return verrors.New("E011").WithTarget(call.Method).Wrap(ErrUnknownMethod)
	}

	arg := call.Arg
	el.AddEventListener(event, func(ev view.Event) error {
		return method(arg, ev)
	})

	res.Handlers = append(res.Handlers, Handler{Event: event, Call: call, Node: el})
	c.config.Logger.Debug("bind event", "event", event, "method", call.Method, "arg", arg)
	return nil
}

// compileText binds every marker in a text node. Each marker gets its own
// subscriber; any of them re-renders the whole text from the unrendered
// template, using its own fresh value and re-resolving the others.
func (c *Compiler) compileText(t view.Text, res *Result) error {
	tmpl := ParseTemplate(t.TextContent())
	if !tmpl.HasMarkers() {
		return nil
	}

	initial, err := Interpolate(tmpl.String(), c.scope)
	if err != nil {
		return fmt.Errorf("text %q: %w", tmpl.String(), err)
	}

	for i, path := range tmpl.Paths() {
		own := i
		sub := c.registry.Add(path, func(v any) error {
			text, err := tmpl.Render(func(j int, p string) (any, error) {
				if j == own {
					return v, nil
				}
				return c.scope.Resolve(p)
			})
			if err != nil {
				return err
			}
			t.SetTextContent(text)
			return nil
		})
		res.Bindings = append(res.Bindings, Binding{
			Kind:       BindText,
			Path:       path,
			Node:       t,
			Subscriber: sub,
		})
		c.config.Logger.Debug("bind text", "path", path)
	}
	t.SetTextContent(initial)
	return nil
}
