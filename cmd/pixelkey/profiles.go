package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pixelkey-go/domain/profile"
)

func newProfilesCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage stored profiles",
	}
	cmd.AddCommand(newProfilesListCommand(rootOpts))
	cmd.AddCommand(newProfilesShowCommand(rootOpts))
	cmd.AddCommand(newProfilesCopyCommand(rootOpts))
	cmd.AddCommand(newProfilesRenameCommand(rootOpts))
	cmd.AddCommand(newProfilesDeleteCommand(rootOpts))
	return cmd
}

func openStore(rootOpts *rootOptions) (*profile.Store, error) {
	dir, err := rootOpts.profilesDir()
	if err != nil {
		return nil, err
	}
	return profile.NewStore(dir), nil
}

func newProfilesListCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			names, err := store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no profiles")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newProfilesShowCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile>",
		Short: "Show a profile's events",
		Args:  cobra.ExactArgs(1),
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
			fmt.Fprintf(out, "%s (%d events)\n", p.Name, len(p.Events))
			for i := range p.Events {
				e := &p.Events[i]
				status := "on"
				if !e.Enabled {
					status = "off"
				}
				pos := e.AbsolutePosition()
				fmt.Fprintf(out, "  [%s] %-24s %s @ (%d,%d)", status, e.Name, e.MatchMode, pos.X, pos.Y)
				if e.Key != "" {
					fmt.Fprintf(out, " -> %s", e.Key)
				}
				if e.Group != "" {
					fmt.Fprintf(out, " [%s p%d]", e.Group, e.Priority)
				}
				if e.Independent {
					fmt.Fprint(out, " (independent)")
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newProfilesCopyCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <profile> <copy-name>",
		Short: "Copy a profile under a new name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			return store.Copy(args[0], args[1])
		},
	}
}

func newProfilesRenameCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <profile> <new-name>",
		Short: "Rename a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			return store.Rename(args[0], args[1])
		},
	}
}

func newProfilesDeleteCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			return store.Delete(args[0])
		},
	}
}
