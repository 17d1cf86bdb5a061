package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
	"github.com/vango-dev/vbind/pkg/view"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		sets   []string
		fires  []string
		out    string
		strip  bool
		pretty bool
		hids   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a bound template to HTML",
		Long: `Render the configured template after binding it to its data.

Writes and events are applied in order before rendering: every
--set first, then every --fire. Event targets are hydration IDs
(h1, h2, ...) as listed by "vbind check" or shown with --hids.

Examples:
  vbind render
  vbind render --set count=5 --out dist/index.html
  vbind render --fire h1:input=hello --fire h2:click`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, flags)
			if err != nil {
				return err
			}
			page, err := p.mount(cmd.Context(), nil)
			if err != nil {
				return err
			}
			vdom.AssignHIDs(page.Tree, vdom.NewHIDGenerator())

			for _, s := range sets {
				path, value, err := parseAssignment(s)
				if err != nil {
					return err
				}
				if err := page.VM.SetPath(path, value); err != nil {
					return err
				}
			}

			for _, s := range fires {
				f, err := parseFire(s)
				if err != nil {
					return err
				}
				node := vdom.FindHID(page.Tree, f.hid)
				if node == nil {
					return fmt.Errorf("no interactive element %q", f.hid)
				}
				if err := vdom.Dispatch(node, view.Event{Type: f.event, Value: f.value}); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("strip") {
				p.cfg.Render.StripDirectives = strip
			}
			if cmd.Flags().Changed("pretty") {
				p.cfg.Render.Pretty = pretty
			}
			r := render.NewRenderer(render.RendererConfig{
				Pretty:          p.cfg.Render.Pretty,
				StripDirectives: p.cfg.Render.StripDirectives,
				HydrationAttrs:  hids,
			})
			html, err := r.RenderToString(page.Tree)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
				return err
			}
			if err := os.WriteFile(out, []byte(html+"\n"), 0o644); err != nil {
				return err
			}
			p.logger.Info("rendered", "template", p.cfg.TemplatePath(), "out", out)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Write path=value before rendering (repeatable)")
	cmd.Flags().StringArrayVar(&fires, "fire", nil, "Dispatch hid:event[=value] before rendering (repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&strip, "strip", false, "Omit directive attributes (overrides config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent output (overrides config)")
	cmd.Flags().BoolVar(&hids, "hids", false, "Include data-hid attributes")

	return cmd
}
