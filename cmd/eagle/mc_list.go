package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newMCListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List servers",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			servers, err := a.manager(nil, nil).List()
			if err != nil {
				return err
			}
			if len(servers) == 0 {
				a.printer.Muted("No servers in %s", a.cfg.Minecraft.Root)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(a.out)
			t.AppendHeader(table.Row{"NAME", "JAR", "PATH"})
			for _, s := range servers {
				jar := "missing"
				if s.HasJar {
					jar = "yes"
				}
				t.AppendRow(table.Row{s.Name, jar, s.Dir})
			}
			style := table.StyleLight
			style.Options.DrawBorder = false
			t.SetStyle(style)
			t.Render()
			return nil
		},
	}
}
