package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/selfupdate"
)

const uninstallHelp = `
Remove the eagle binary.

On Windows the binary is deleted after eagle exits, and any
"Set-Alias eagle" line is dropped from the PowerShell profile. Local builds
are refused unless --force is given.
`

func newUninstallCmd(a *app) *cobra.Command {
	var yes, force bool

	cmd := &cobra.Command{
		Use:     "uninstall",
		Aliases: []string{"rem"},
		Short:   "Remove eagle from this machine",
		Long:    uninstallHelp,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := selfupdate.New(nil, nil, a.version, selfupdate.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if !force && selfupdate.IsDevBuild(u.Executable(), a.version) {
				return selfupdate.ErrDevBuild
			}

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), a.out, "Uninstall eagle?")
				if err != nil {
					return err
				}
				if !ok {
					a.printer.Muted("Uninstall canceled.")
					return nil
				}
			}

			res, err := u.Uninstall(cmd.Context(), force)
			if err != nil {
				return err
			}
			if res.Deferred {
				a.printer.Success("Uninstall scheduled. Close this shell if eagle is still in use.")
				return nil
			}
			a.printer.Success("Removed %s", res.Path)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&yes, "yes", "y", false, "do not prompt")
	f.BoolVar(&force, "force", false, "run even if this looks like a dev binary")
	return cmd
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	response, err := ask(bufio.NewReader(in), out, question+" [y/N] ")
	if err != nil {
		return false, err
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes", nil
}
