package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/example/pixwand/internal/config"
	"github.com/example/pixwand/internal/notify"
	"github.com/example/pixwand/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	configPathOverride = ""
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	verbose    bool
	configPath string
	themeName  string

	cfg      *config.Config
	theme    *theme.Theme
	notifier *notify.Notifier
	stderr   io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{configPath: configPathOverride, stderr: os.Stderr}
	root := &cobra.Command{
		Use:   "pixwand",
		Short: "Raster editor with a progressive magic wand",
		Long: `pixwand opens an image for painting, erasing, cropping and region
selection. The magic wand grows its selection ring by ring within a small
time budget per frame, so the window stays responsive on large images.

The select and crop subcommands run the same tools headless.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "path to a config file")
	root.PersistentFlags().StringVar(&a.themeName, "theme", "", "theme name or path (overrides "+config.ThemeEnv+")")
	root.SetVersionTemplate(fmt.Sprintf(
		"pixwand %s%s (%s/%s, %s)\n",
		version, commitSuffix(), runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	root.AddCommand(
		newEditCmd(a),
		newSelectCmd(a),
		newCropCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

func commitSuffix() string {
	if commit == "" {
		return ""
	}
	return " " + commit
}

// setup loads the config file, theme and notification preferences. A
// broken config file is reported and replaced by defaults.
func (a *app) setup(cmd *cobra.Command) error {
	a.stderr = cmd.ErrOrStderr()
	loader := config.NewLoader(version, a.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(a.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	a.cfg = cfg
	if p := loader.GetConfigPath(); p != "" {
		a.logVerbose("config %s", p)
	}

	tl := theme.NewLoader()
	tl.Inline = cfg.Themes
	name := config.ResolveTheme(a.themeName, cfg)
	th, err := tl.Load(name)
	if err != nil {
		if a.themeName != "" {
			return err
		}
		fmt.Fprintf(a.stderr, "warning: %v; using default theme\n", err)
		th = theme.Default()
	}
	a.theme = th
	a.logVerbose("theme %s", th.Name)

	a.notifier = notify.New(notify.LoadPreferences())
	a.notifier.Enable(notify.EventSave, cfg.Notify.Save)
	a.notifier.Enable(notify.EventCopy, cfg.Notify.Copy)
	a.notifier.Enable(notify.EventSelect, cfg.Notify.Select)
	return nil
}

// logVerbose prints a message only when --verbose is set.
func (a *app) logVerbose(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(a.stderr, "[pixwand] "+format+"\n", args...)
	}
}
