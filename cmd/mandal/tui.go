package main

import (
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/mandal/pkg/config"
	"github.com/vanderheijden86/mandal/pkg/debug"
	"github.com/vanderheijden86/mandal/pkg/export"
	"github.com/vanderheijden86/mandal/pkg/metrics"
	"github.com/vanderheijden86/mandal/pkg/store"
	"github.com/vanderheijden86/mandal/pkg/ui"
	"github.com/vanderheijden86/mandal/pkg/watcher"
)

func runTUI(app *App) error {
	// The TUI owns the terminal.
	if err := debug.Init(config.DebugLogPath()); err != nil {
		return err
	}

	fonts, err := export.LoadFonts(app.cfg.Export.FontRegular, app.cfg.Export.FontBold)
	if err != nil {
		return err
	}
	p, err := app.persistence()
	if err != nil {
		return err
	}

	opts := ui.Options{
		ExportDir:    app.cfg.Export.Dir,
		ExportFormat: app.cfg.Export.Format,
		Fonts:        fonts,
		StartPane:    app.cfg.UI.StartPane,
	}
	if w := startWatcher(p.KV()); w != nil {
		defer w.Stop()
		opts.Watcher = w
	}

	err = runTUIProgram(ui.NewModel(ui.NewSession(p), opts))
	for _, s := range metrics.Snapshot() {
		debug.Log("metrics %s: n=%d avg=%.3fms max=%.3fms", s.Name, s.Count, s.AvgMs, s.MaxMs)
	}
	return err
}

// startWatcher follows the board file so edits from another terminal show
// up. Only the file backend has a file to watch.
func startWatcher(kv store.KV) *watcher.Watcher {
	fkv, ok := kv.(*store.FileKV)
	if !ok {
		return nil
	}
	w, err := watcher.New(fkv.Path(store.StorageKey),
		watcher.WithOnError(func(err error) { debug.Error("watch board file", err) }),
	)
	if err != nil {
		debug.Error("create watcher", err)
		return nil
	}
	if err := w.Start(); err != nil {
		debug.Error("start watcher", err)
		return nil
	}
	debug.Log("watching %s (polling=%v)", w.Path(), w.IsPolling())
	return w
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set MANDAL_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("MANDAL_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
