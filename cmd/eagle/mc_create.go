package main

import (
	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/minecraft"
)

const mcCreateHelp = `
Create a server folder under the servers root, accept the EULA, write
server.properties and download a verified server.jar.

For paper, a family such as 1.21 resolves to its newest release. Nothing is
left behind when resolution or the download fails.
`

func newMCCreateCmd(a *app) *cobra.Command {
	var (
		art  artifactFlags
		opts minecraft.CreateOptions
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new server",
		Long:  mcCreateHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flavor, err := art.parse()
			if err != nil {
				return err
			}
			opts.Flavor = flavor
			opts.Version = art.version
			if !cmd.Flags().Changed("port") {
				opts.Port = a.cfg.Minecraft.Port
			}
			if !cmd.Flags().Changed("motd") {
				opts.Motd = a.cfg.Minecraft.Motd
			}
			if !cmd.Flags().Changed("require-digest") {
				opts.RequireDigest = a.cfg.Minecraft.RequireDigest
			}
			return a.runMCCreate(cmd, opts)
		},
	}

	art.register(cmd)
	f := cmd.Flags()
	f.StringVar(&opts.Name, "name", "", "server folder name")
	f.IntVar(&opts.Port, "port", minecraft.DefaultPort, "server port")
	f.StringVar(&opts.Motd, "motd", minecraft.DefaultMotd, "server list message")
	f.BoolVar(&opts.Force, "force", false, "replace an existing server folder")
	f.BoolVar(&opts.SkipDownload, "skip-download", false, "write config files without downloading server.jar")
	f.BoolVar(&opts.RequireDigest, "require-digest", false, "refuse to download a jar that has no published digest")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) runMCCreate(cmd *cobra.Command, opts minecraft.CreateOptions) error {
	client := a.client()
	m := a.manager(a.resolver(client), a.downloader(client))

	if !opts.SkipDownload {
		a.printer.Info("Resolving %s %s...", opts.Flavor, opts.Version)
	}
	res, err := m.Create(cmd.Context(), opts)
	if err != nil {
		return err
	}

	a.printer.Success("Created server: %s (%s, %s)", res.Dir, res.Flavor, res.VersionLabel())
	a.printer.Muted("Port: %d", res.Port)
	a.printer.Muted("Motd: %s", res.Motd)
	if res.Download != nil && !res.Download.Verified {
		a.printer.Warning("server.jar was not verified: upstream published no digest")
	}
	if opts.SkipDownload {
		a.printer.Warning("server.jar was not downloaded. Place one in %s before starting.", res.Dir)
	}
	return nil
}
