package main

import (
	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/resolver"
)

func newMCCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mc",
		Short: "Create, list and run local Minecraft servers",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		newMCCreateCmd(a),
		newMCStartCmd(a),
		newMCListCmd(a),
		newMCResolveCmd(a),
		newMCFetchCmd(a),
	)
	return cmd
}

// artifactFlags are the flags shared by every command that resolves a jar.
type artifactFlags struct {
	flavor  string
	version string
}

func (f *artifactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.flavor, "type", string(resolver.FlavorPaper), "server type: paper or fabric")
	cmd.Flags().StringVar(&f.version, "version", "", "Minecraft version, or a family such as 1.21 (paper only)")
	_ = cmd.MarkFlagRequired("version")
}

func (f *artifactFlags) parse() (resolver.Flavor, error) {
	return resolver.ParseFlavor(f.flavor)
}
