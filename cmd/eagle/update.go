package main

import (
	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/selfupdate"
)

const updateHelp = `
Check the latest eagle release and replace the running binary with it.

The release asset must advertise a SHA-256 digest; the download is verified
before it is published. On Windows the swap happens after eagle exits.
Local builds are refused unless --force is given.
`

func newUpdateCmd(a *app) *cobra.Command {
	var opts selfupdate.Options

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update eagle to the latest release",
		Long:  updateHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUpdate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Force, "force", false, "update local builds and reinstall the current release")
	f.BoolVar(&opts.CheckOnly, "check", false, "only report whether an update is available")
	return cmd
}

func (a *app) runUpdate(cmd *cobra.Command, opts selfupdate.Options) error {
	client := a.client()
	u, err := selfupdate.New(a.resolver(client), a.downloader(client), a.version,
		selfupdate.WithLogger(a.logger))
	if err != nil {
		return err
	}

	if !opts.CheckOnly {
		a.printer.Info("Checking for updates...")
	}
	res, err := u.Update(cmd.Context(), opts)
	if err != nil {
		return err
	}

	switch {
	case opts.CheckOnly && res.Newer:
		a.printer.Warning("Update available: %s -> %s", res.Current, res.Latest)
	case !res.Installed:
		a.printer.Success("eagle is up to date (%s)", res.Current)
	case res.Deferred:
		a.printer.Success("Update to %s scheduled. It completes once eagle exits.", res.Latest)
	default:
		a.printer.Success("Updated eagle %s -> %s", res.Current, res.Latest)
	}
	return nil
}
