package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/dockworks/internal/server"
	"github.com/matzehuels/dockworks/pkg/config"
	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/launcher"
	"github.com/matzehuels/dockworks/pkg/state"
	"github.com/matzehuels/dockworks/pkg/store"
	"github.com/matzehuels/dockworks/pkg/timer"
	"github.com/matzehuels/dockworks/pkg/winsys"
	"github.com/matzehuels/dockworks/pkg/winsys/x11"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr     string
	useX11   bool
	display  string
	autosave time.Duration
	noLaunch bool
}

// serveCommand runs the engine with its HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOptions{addr: defaultAddr, autosave: 30 * time.Second}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dock engine and its HTTP API",
		Long: `Restore the saved session from the configured store, auto-launch the
icons marked for it and serve the API until interrupted. The session is
saved periodically and once more on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "API listen address")
	cmd.Flags().BoolVar(&opts.useX11, "x11", false, "draw icons on the X display instead of recording them")
	cmd.Flags().StringVar(&opts.display, "display", os.Getenv("DISPLAY"), "X display for --x11")
	cmd.Flags().DurationVar(&opts.autosave, "autosave", opts.autosave, "save interval, 0 to save only on shutdown")
	cmd.Flags().BoolVar(&opts.noLaunch, "no-autolaunch", false, "do not start auto-launch icons")
	return cmd
}

func (c *CLI) serve(ctx context.Context, opts serveOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.applyLogConfig(cfg)
	logger := loggerFromContext(ctx)

	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	loop := timer.NewLoop(64)
	desk, closeDisplay, err := c.liveDesktop(cfg, loop, opts)
	if err != nil {
		return err
	}
	defer closeDisplay()

	// The loop is not running yet, so the desktop is still ours.
	if err := restoreFromStore(ctx, desk, st, cfg.Store.Key, logger); err != nil {
		desk.Close()
		return err
	}
	if !opts.noLaunch {
		if n := desk.AutoLaunchAll(ctx); n > 0 {
			logger.Info("auto-launched", "icons", n)
		}
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	srv := server.New(server.Options{
		Loop:    loop,
		Desktop: desk,
		Saver:   &store.Saver{Store: st, Key: cfg.Store.Key},
		Logger:  logger,
	})
	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", opts.addr, "store", st.Backend(), "key", cfg.Store.Key)
		if err := httpSrv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})
	if opts.autosave > 0 {
		g.Go(func() error {
			autosave(gctx, srv, opts.autosave, logger)
			return nil
		})
	}
	if w := c.configWatcher(); w != nil {
		g.Go(func() error {
			_ = w.Run(gctx, func(next *config.Config, err error) {
				if err != nil {
					logger.Warn("config reload failed", "err", err)
					return
				}
				loop.Post(func() { desk.SetTiming(next.DockTiming()) })
				logger.Info("config reloaded")
			})
			return nil
		})
	}

	err = g.Wait()

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if wrote, serr := srv.Save(sctx); serr != nil {
		logger.Error("final save failed", "err", serr)
	} else if wrote {
		logger.Info("session saved", "key", cfg.Store.Key)
	}
	_ = loop.Do(sctx, func() error {
		desk.Close()
		return nil
	})

	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyLogConfig applies the [log] table unless flags already did.
func (c *CLI) applyLogConfig(cfg *config.Config) {
	if cfg.Log.File != "" && c.logCloser == nil {
		c.logCloser = teeLogFile(c.Logger, c.stderr, cfg.Log.File)
	}
	if c.Logger.GetLevel() != log.InfoLevel || cfg.Log.Level == "" {
		return
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.Logger.SetLevel(level)
	}
}

func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	spin := startSpinner(ctx, c.stderr, "Opening "+storeName(cfg)+" store...")
	st, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		if spin.interrupted() {
			spin.stop()
			return nil, ctx.Err()
		}
		spin.fail("Store unavailable")
		return nil, err
	}
	spin.stop()
	return st, nil
}

func storeName(cfg *config.Config) string {
	if cfg.Store.Backend == "" {
		return "file"
	}
	return cfg.Store.Backend
}

// liveDesktop builds a desktop whose timers and process exits are
// delivered through loop. The returned func releases the display.
func (c *CLI) liveDesktop(cfg *config.Config, loop *timer.Loop, opts serveOptions) (*dock.Desktop, func(), error) {
	var desk *dock.Desktop
	exec := &launcher.Exec{
		Logger: c.Logger,
		OnExit: func(h launcher.Handle, status int) {
			loop.Post(func() {
				if err := desk.ProcessExited(h, status); err != nil {
					c.Logger.Debug("exit of unknown process", "handle", h, "status", status)
				}
			})
		},
	}

	dopts := cfg.DesktopOptions(nil)
	release := func() {}
	if opts.useX11 {
		disp, err := x11.Connect(opts.display, cfg.Screen.IconSize, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		dopts = cfg.DesktopOptions(disp)
		dopts.Ops = disp
		release = disp.Close
	} else {
		dopts.Ops = winsys.NewRecorder()
	}
	dopts.Launcher = exec
	dopts.Logger = c.Logger
	dopts.Scheduler = timer.NewScheduler(timer.Real, loop.Post)

	d, err := dock.NewDesktop(dopts)
	if err != nil {
		release()
		return nil, nil, err
	}
	desk = d
	return desk, release, nil
}

func restoreFromStore(ctx context.Context, desk *dock.Desktop, st store.Store, key string, logger *log.Logger) error {
	doc, err := store.LoadDocument(ctx, st, key)
	if stderrors.Is(err, store.ErrNotFound) {
		logger.Info("no saved session, starting fresh", "key", key)
		return nil
	}
	if err != nil {
		return err
	}
	report, err := state.RestoreSession(desk, doc)
	if err != nil {
		return err
	}
	for _, s := range report.Skipped {
		logger.Warn("skipped record", "record", s.String())
	}
	logger.Info("session restored", "icons", report.Restored, "skipped", len(report.Skipped))
	return nil
}

func autosave(ctx context.Context, srv *server.Server, every time.Duration, logger *log.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if wrote, err := srv.Save(ctx); err != nil {
				logger.Warn("autosave failed", "err", err)
			} else if wrote {
				logger.Debug("autosaved")
			}
		}
	}
}

// configWatcher watches the config file in use, if there is one.
func (c *CLI) configWatcher() *config.Watcher {
	path := configPathFor(c.configPath)
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil
		}
		if _, err := os.Stat(p); err != nil {
			return nil
		}
		path = p
	}
	w, err := config.NewWatcher(path)
	if err != nil {
		c.Logger.Warn("config changes will not be picked up", "err", err)
		return nil
	}
	return w
}
