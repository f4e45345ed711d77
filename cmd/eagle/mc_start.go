package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/minecraft"
)

func newMCStartCmd(a *app) *cobra.Command {
	var ramMB int

	cmd := &cobra.Command{
		Use:   "start [name]",
		Short: "Run a server in the foreground",
		Long: `Run a server with java in the foreground.

The name may be omitted when exactly one server exists. The heap defaults
to the configured ram_mb, capped at half of physical memory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := minecraft.StartOptions{
				RAMMB:  ramMB,
				Stdin:  os.Stdin,
				Stdout: a.out,
				Stderr: a.errOut,
			}
			if len(args) == 1 {
				opts.Name = args[0]
			}
			if opts.RAMMB <= 0 {
				opts.RAMMB = a.info.HeapMB(a.cfg.Minecraft.RAMMB)
			}

			m := a.manager(nil, nil)
			a.printer.Info("Starting server with %d MiB heap...", opts.RAMMB)
			return m.Start(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&ramMB, "ram-mb", 0, "java heap size in MiB (default: config ram_mb, capped at half of physical memory)")
	return cmd
}
