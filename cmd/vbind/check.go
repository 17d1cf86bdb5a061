package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/pkg/vdom"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile the template and list its bindings",
		Long: `Compile the configured template against its data and report
every binding and event handler created. Unknown properties and
methods fail the check with their error code.

Examples:
  vbind check
  vbind check --config site/vbind.yaml --quiet`,
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

			bindings := page.VM.Bindings()
			handlers := page.VM.Handlers()
			if !quiet {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "KIND\tPATH\tDETAIL")
				for _, b := range bindings {
					detail := b.Directive
					if b.TwoWay {
						detail += " (two-way)"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", b.Kind, b.Path, detail)
				}
				for _, h := range handlers {
					hid := ""
					if v, ok := vdom.Unwrap(h.Node); ok {
						hid = v.HID
					}
					fmt.Fprintf(w, "@%s\t%s(%s)\t%s\n", h.Event, h.Call.Method, h.Call.Arg, hid)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			success(cmd, "%s: bindings=%d handlers=%d interactive=%d",
				p.cfg.TemplatePath(), len(bindings), len(handlers), vdom.CountInteractive(page.Tree))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the summary")

	return cmd
}
