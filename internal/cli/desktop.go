package cli

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockworks/pkg/config"
	"github.com/matzehuels/dockworks/pkg/dock"
	dio "github.com/matzehuels/dockworks/pkg/io"
	"github.com/matzehuels/dockworks/pkg/launcher"
	"github.com/matzehuels/dockworks/pkg/plist"
	"github.com/matzehuels/dockworks/pkg/state"
	"github.com/matzehuels/dockworks/pkg/timer"
	"github.com/matzehuels/dockworks/pkg/winsys"
)

// offline is a desktop restored from a state file with a recording window
// system and no running timers.
type offline struct {
	cfg    *config.Config
	desk   *dock.Desktop
	rec    *winsys.Recorder
	clock  *timer.Manual
	report *state.Report
}

// loadConfig reads the configuration named by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(configPathFor(c.configPath))
}

// restoreFile builds a desktop from cfg and restores the session saved at
// path into it. l may be nil for commands that never launch.
func (c *CLI) restoreFile(path string, l launcher.Launcher) (*offline, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	doc, err := dio.ImportDocument(path)
	if err != nil {
		return nil, err
	}
	return restoreDoc(cfg, doc, l, c.Logger)
}

func restoreDoc(cfg *config.Config, doc *plist.Dict, l launcher.Launcher, logger *log.Logger) (*offline, error) {
	o, err := newOffline(cfg, l, logger)
	if err != nil {
		return nil, err
	}
	if o.report, err = state.RestoreSession(o.desk, doc); err != nil {
		o.desk.Close()
		return nil, err
	}
	return o, nil
}

// newOffline builds an empty desktop driven by a manual clock.
func newOffline(cfg *config.Config, l launcher.Launcher, logger *log.Logger) (*offline, error) {
	rec := winsys.NewRecorder()
	clock := timer.NewManual()
	opts := cfg.DesktopOptions(nil)
	opts.Ops = rec
	opts.Launcher = l
	opts.Logger = logger
	opts.Scheduler = timer.NewScheduler(clock, nil)

	desk, err := dock.NewDesktop(opts)
	if err != nil {
		return nil, err
	}
	return &offline{cfg: cfg, desk: desk, rec: rec, clock: clock, report: &state.Report{}}, nil
}

// findIcon looks an icon up by id, by "instance.class" or by instance.
func findIcon(d *dock.Desktop, ref string) (dock.IconView, bool) {
	var byInstance []dock.IconView
	for _, dv := range d.Snapshot().Docks {
		for _, ic := range dv.Icons {
			if ic.Anchor {
				continue
			}
			if string(ic.ID) == ref || ic.Name == ref {
				return ic, true
			}
			if ic.Instance == ref {
				byInstance = append(byInstance, ic)
			}
		}
	}
	if len(byInstance) == 1 {
		return byInstance[0], true
	}
	return dock.IconView{}, false
}
