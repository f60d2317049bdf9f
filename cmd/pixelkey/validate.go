package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pixelkey-go/core/engine"
	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
)

func newValidateCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <profile>",
		Short: "Check a profile for conflicts",
		Long: `Load a profile, report duplicate names, unknown condition targets
and condition cycles, and show what its events compile to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			p, err := store.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			warnings := profile.Validate(p)
			for _, w := range warnings {
				fmt.Fprintf(out, "warning [%s]: %s\n", w.Kind, w.Message)
			}

			compiled := engine.Compile(p.Events, keymap.Native())
			fmt.Fprintf(out, "%d of %d events compile (%d independent)\n",
				compiled.Count(), len(p.Events), len(compiled.Independent))
			if compiled.CaptureRect != nil {
				r := *compiled.CaptureRect
				fmt.Fprintf(out, "capture rect %dx%d at (%d,%d)\n",
					r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
			}

			if len(warnings) > 0 {
				return fmt.Errorf("%d warning(s)", len(warnings))
			}
			fmt.Fprintln(out, "profile ok")
			return nil
		},
	}
}
