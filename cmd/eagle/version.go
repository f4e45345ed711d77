package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the eagle version",
		Args:  cobra.NoArgs,
		// The version must print even when the config is broken.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(a.out, "eagle %s (%s/%s)\n", a.version, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
