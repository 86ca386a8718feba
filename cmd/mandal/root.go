package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mandal/pkg/config"
	"github.com/vanderheijden86/mandal/pkg/debug"
	"github.com/vanderheijden86/mandal/pkg/metrics"
	"github.com/vanderheijden86/mandal/pkg/store"
)

// App carries the resolved configuration and the open store across a
// command's lifetime.
type App struct {
	ConfigPath string
	Backend    string
	Ephemeral  bool
	Verbose    bool
	Metrics    bool

	cfg config.Config
	kv  store.KV
}

// NewRootCmd builds the command tree. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "mandal",
		Short:        "Plan the year on a mandalart board",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Edit the board interactively
  mandal

  # Fill the board from the command line
  mandal set title "2026 나의 성장 프로젝트"
  mandal set goal 1 "건강"
  mandal set detail 1 1 "매일 30분 걷기"

  # Share it
  mandal digest --copy
  mandal export --format all -o ~/Pictures
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.Verbose {
			debug.SetEnabled(true)
		}
		metrics.ResetAll()
		return app.loadConfig()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.Metrics {
			for _, s := range metrics.Snapshot() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%-14s n=%-4d avg=%.3fms max=%.3fms\n", s.Name, s.Count, s.AvgMs, s.MaxMs)
			}
		}
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/mandal/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Backend, "storage", "", "Storage backend override (file|sqlite|memory)")
	cmd.PersistentFlags().BoolVar(&app.Ephemeral, "ephemeral", false, "Keep the board in memory only")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Write debug logs")
	cmd.PersistentFlags().BoolVar(&app.Metrics, "metrics", false, "Print timing metrics on exit")

	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newDigestCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newSelectCmd(app))
	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (a *App) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if a.ConfigPath != "" {
		cfg, err = config.LoadFrom(a.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.Backend != "" {
		cfg.Storage.Backend = strings.ToLower(a.Backend)
	}
	if a.Ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	debug.Log("config: storage=%s path=%s export=%s", cfg.Storage.Backend, cfg.Storage.Path, cfg.Export.Dir)
	return nil
}

// persistence opens the configured store on first use.
func (a *App) persistence() (*store.Persistence, error) {
	if a.kv == nil {
		kv, err := store.Open(a.cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("opening %s store: %w", a.cfg.Storage.Backend, err)
		}
		a.kv = kv
	}
	return store.NewPersistence(a.kv), nil
}

func (a *App) close() error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv = nil
	return err
}
