package main

import (
	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/eaglecord"
	"github.com/prodbyeagle/eagle/internal/git"
	"github.com/prodbyeagle/eagle/internal/shell"
)

const eaglecordHelp = `
Clone or fast-forward the EagleCord repository, then build it and inject it
into Discord with bun.

A clone with local changes is never touched; use --reinstall to delete it
and start from a fresh clone.
`

func newEaglecordCmd(a *app) *cobra.Command {
	var opts eaglecord.Options

	cmd := &cobra.Command{
		Use:   "eaglecord",
		Short: "Install or update EagleCord",
		Long:  eaglecordHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := a.cfg.Eaglecord.Dir
			inst := eaglecord.New(a.cfg.Eaglecord.Repo, dir,
				eaglecord.WithGit(git.NewClient(dir, git.WithProgress(a.errOut))),
				eaglecord.WithRunner(shell.Exec{Stdout: a.out, Stderr: a.errOut}),
				eaglecord.WithPrinter(a.printer),
				eaglecord.WithLogger(a.logger),
			)
			res, err := inst.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			a.logger.Info("eaglecord synced", "dir", res.Dir, "head", res.Head, "cloned", res.Cloned, "updated", res.Updated)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Reinstall, "reinstall", false, "delete the clone and start over")
	return cmd
}
