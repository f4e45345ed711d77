package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/binary"
	"github.com/prodbyeagle/eagle/internal/config"
	"github.com/prodbyeagle/eagle/internal/logging"
	"github.com/prodbyeagle/eagle/internal/minecraft"
	"github.com/prodbyeagle/eagle/internal/platform"
	"github.com/prodbyeagle/eagle/internal/resolver"
	"github.com/prodbyeagle/eagle/internal/transport"
	"github.com/prodbyeagle/eagle/internal/ui"
)

const globalUsage = `eagle manages local Minecraft servers, EagleCord, project templates
and itself.

Server jars and release binaries are resolved from their upstream metadata
services and verified against a SHA-256 digest before they are published.

Configuration is read from $EAGLE_CONFIG_DIR/config.lua, which defaults to
$XDG_CONFIG_HOME/eagle/config.lua or ~/.config/eagle/config.lua. A missing
file means defaults. $EAGLE_SERVERS_DIR overrides the servers folder.
`

// app carries what every subcommand needs once the root command has run
// its setup.
type app struct {
	version    string
	configPath string

	out    io.Writer
	errOut io.Writer

	detector platform.Detector
	printer  *ui.Printer
	logger   *slog.Logger
	info     *platform.Info
	cfg      *config.Config
}

func newRootCmd(version string, detector platform.Detector, out, errOut io.Writer) *cobra.Command {
	a := &app{
		version:  version,
		out:      out,
		errOut:   errOut,
		detector: detector,
		printer:  ui.NewPrinter(out, errOut),
		logger:   slog.New(slog.DiscardHandler),
	}

	cmd := &cobra.Command{
		Use:               "eagle",
		Short:             "Minecraft servers, EagleCord and verified downloads",
		Long:              globalUsage,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	f := cmd.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "path to config.lua (default $EAGLE_CONFIG_DIR/config.lua)")
	logging.RegisterFlags(f)

	cmd.AddCommand(
		newVersionCmd(a),
		newUpdateCmd(a),
		newMCCmd(a),
		newEaglecordCmd(a),
		newCreateCmd(a),
		newUninstallCmd(a),
	)
	return cmd
}

// setup builds the logger, detects the platform and loads the config.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	logger, err := logging.FromCommand(cmd)
	if err != nil {
		return err
	}
	a.logger = logger

	ctx := cmd.Context()
	info, err := a.detector.Detect(ctx)
	if err != nil {
		return err
	}
	a.info = info

	// The config sees the same platform table without detecting again.
	cfg, err := config.Load(ctx, a.configPath, platform.StaticDetector{Info: info})
	if err != nil {
		return fmt.Errorf("%s", config.FormatError(err, a.logger.Enabled(ctx, slog.LevelDebug)))
	}
	a.cfg = cfg
	a.logger.Debug("config loaded",
		"servers", cfg.Minecraft.Root,
		"attempts", cfg.Network.Attempts,
		"os", info.OS,
		"arch", info.Arch,
	)
	return nil
}

func (a *app) userAgent() string {
	if a.cfg.Network.UserAgent != "" {
		return a.cfg.Network.UserAgent
	}
	return a.info.UserAgent(a.version)
}

func (a *app) client() *transport.Client {
	return transport.New(
		transport.WithUserAgent(a.userAgent()),
		transport.WithMaxAttempts(a.cfg.Network.Attempts),
		transport.WithLogger(a.logger),
	)
}

func (a *app) resolver(client *transport.Client, opts ...resolver.Option) *resolver.Resolver {
	opts = append([]resolver.Option{resolver.WithLogger(a.logger)}, opts...)
	return resolver.New(client, a.cfg.Endpoints.Resolver(), opts...)
}

func (a *app) downloader(client *transport.Client) *binary.Downloader {
	return binary.NewDownloader(client,
		binary.WithProgress(ui.ProgressFactory(a.errOut)),
		binary.WithLogger(a.logger),
	)
}

func (a *app) manager(res *resolver.Resolver, dl *binary.Downloader) *minecraft.Manager {
	return minecraft.NewManager(a.cfg.Minecraft.Root, res, dl, minecraft.WithLogger(a.logger))
}
