package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pixelkey-go/application"
	"pixelkey-go/core/event"
	"pixelkey-go/core/eventbus"
	"pixelkey-go/domain/keymap"
	"pixelkey-go/domain/profile"
	"pixelkey-go/domain/settings"
	"pixelkey-go/infrastructure/capture"
	"pixelkey-go/infrastructure/input"
	"pixelkey-go/infrastructure/process"
)

type runOptions struct {
	*rootOptions
	TargetPID int
	DryRun    bool
}

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <profile>",
		Short: "Activate a profile until interrupted",
		Long: `Activate the named profile: capture the configured screen points on
a polling loop and press keys as events match. Runs until Ctrl-C.

Example:
  pixelkey run farm
  pixelkey run farm --pid 4711 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.TargetPID, "pid", 0,
		"only evaluate while this process is foreground (0: always)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false,
		"evaluate and log but do not inject keys")

	return cmd
}

func runProfile(opts *runOptions, name string) error {
	profilesDir, err := opts.profilesDir()
	if err != nil {
		return err
	}
	settingsPath, err := opts.settingsPath()
	if err != nil {
		return err
	}
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	var sim input.Simulator
	if opts.DryRun {
		sim = input.NoopSimulator{}
	} else {
		sim = input.NewNativeSimulator()
	}

	bus := eventbus.New(100)
	defer bus.Close()
	bus.Subscribe(func(e event.Event) {
		switch evt := e.(type) {
		case *event.KeyPressed:
			opts.logger.Info("Key pressed",
				"event", evt.SourceEvent, "key", evt.Key, "hold", evt.HoldTime)
		case *event.PressFailed:
			opts.logger.Warn("Key press failed",
				"event", evt.SourceEvent, "key", evt.Key, "error", evt.Error)
		case *event.ProcessorStopped:
			opts.logger.Info("Processor stopped", "reason", evt.Reason.String())
		}
	})

	coordinator := application.NewCoordinator(&application.Config{
		EventBus:  bus,
		Store:     profile.NewStore(profilesDir),
		Settings:  cfg,
		Grabber:   capture.NewNativeGrabber(),
		Simulator: sim,
		Modifiers: input.NewNativeModifiers(),
		Process:   process.NewNativeChecker(),
		KeyTable:  keymap.Native(),
		Logger:    opts.logger,
	})

	if err := coordinator.ActivateProfile(name, opts.TargetPID); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	opts.logger.Info("Interrupt received, shutting down")
	coordinator.DeactivateAll()
	return nil
}
