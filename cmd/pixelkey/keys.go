package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"pixelkey-go/domain/keymap"
)

func newKeysCommand(rootOpts *rootOptions) *cobra.Command {
	var osName string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List key names available in profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := keymap.Native()
			if osName != "" {
				table = keymap.ForOS(osName)
				if table == nil {
					return fmt.Errorf("no key table for OS %q", osName)
				}
			}
			names := table.Names()
			sort.Strings(names)
			for _, name := range names {
				code, _ := table.Code(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %#04x\n", name, code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&osName, "os", "", "key table to list (windows|darwin)")
	return cmd
}
