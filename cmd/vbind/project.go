package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/builtin"
	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/source"
	"github.com/vango-dev/vbind/pkg/metrics"
	"github.com/vango-dev/vbind/pkg/server"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// project is a loaded configuration plus the loader and logger built from it.
type project struct {
	cfg    *config.Config
	loader *source.Loader
	logger *slog.Logger
}

// loadProject reads the config named by --config, or the one in the working
// directory, and applies --log-level.
func loadProject(cmd *cobra.Command, flags *globalFlags) (*project, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.config != "" {
		cfg, err = config.LoadFile(flags.config)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	loader := source.New(source.WithS3Config(source.S3Config{
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		PathStyle: cfg.S3.PathStyle,
	}))

	return &project{cfg: cfg, loader: loader, logger: logger}, nil
}

// mount reads the template and data and binds a fresh VM to them. m may be
// nil.
func (p *project) mount(ctx context.Context, m *metrics.Metrics) (*server.Page, error) {
	markup, err := p.loader.Read(ctx, p.cfg.TemplatePath())
	if err != nil {
		return nil, err
	}
	tree, err := vdom.ParseString(string(markup))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.cfg.TemplatePath(), err)
	}

	var data map[string]any
	if src := p.cfg.DataPath(); src != "" {
		data, err = p.loader.LoadData(ctx, src)
		if err != nil {
			return nil, err
		}
	}

	opts := vbind.Options{
		El:       p.cfg.El,
		Document: vdom.NewDocument(tree),
		Data:     data,
		Computed: builtin.Computed(p.cfg.Computed),
		Methods:  builtin.Methods(p.logger),
		Mode:     p.cfg.NotifyMode(),
		Logger:   p.logger,
	}
	if m != nil {
		opts.Observer = m
		opts.CompileObserver = m
	}

	vm, err := vbind.NewContext(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &server.Page{VM: vm, Tree: tree, Selector: p.cfg.El}, nil
}

// parseAssignment splits "path=value". The value is decoded as a YAML
// scalar so numbers and booleans keep their type; "a=" assigns "".
func parseAssignment(s string) (string, any, error) {
	path, raw, ok := strings.Cut(s, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return "", nil, fmt.Errorf("invalid assignment %q: want path=value", s)
	}
	if raw == "" {
		return path, "", nil
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return path, raw, nil
	}
	return path, value, nil
}

// fireSpec is one --fire argument.
type fireSpec struct {
	hid   string
	event string
	value string
}

// parseFire parses "hid:event" or "hid:event=value".
func parseFire(s string) (fireSpec, error) {
	target, value, _ := strings.Cut(s, "=")
	hid, event, ok := strings.Cut(target, ":")
	if !ok || hid == "" || event == "" {
		return fireSpec{}, fmt.Errorf("invalid event %q: want hid:event[=value]", s)
	}
	return fireSpec{hid: hid, event: event, value: value}, nil
}
