package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/prodbyeagle/eagle/internal/checksum"
	"github.com/prodbyeagle/eagle/internal/resolver"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// resolution is the printed form of a resolved artifact.
type resolution struct {
	Flavor    resolver.Flavor `json:"flavor"`
	Requested string          `json:"requested"`
	*resolver.Artifact
}

func newMCResolveCmd(a *app) *cobra.Command {
	var (
		art    artifactFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which jar a version resolves to without downloading it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flavor, err := art.parse()
			if err != nil {
				return err
			}
			resolved, err := a.resolver(a.client()).Resolve(cmd.Context(), flavor, art.version)
			if err != nil {
				return err
			}
			data, err := encodeResolution(resolution{Flavor: flavor, Requested: art.version, Artifact: resolved}, output)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)
			return err
		},
	}

	art.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func encodeResolution(r resolution, format string) ([]byte, error) {
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode resolution as JSON: %w", err)
		}
		return append(data, '\n'), nil
	case outputYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode resolution as YAML: %w", err)
		}
		return data, nil
	case outputText:
		digestText := "none"
		if r.Verified() {
			digestText = fmt.Sprintf("%s (%s)", checksum.Hex(r.Digest), r.DigestSource)
		}
		t := table.NewWriter()
		t.AppendRows([]table.Row{
			{"Type", r.Flavor},
			{"Requested", r.Requested},
			{"Version", r.Version},
			{"Build", r.Build},
			{"File", r.Name},
			{"URL", r.URL},
			{"SHA-256", digestText},
		})
		style := table.StyleLight
		style.Options.DrawBorder = false
		style.Options.SeparateColumns = false
		t.SetStyle(style)
		return []byte(t.Render() + "\n"), nil
	default:
		return nil, fmt.Errorf("invalid output format %q (expected text, json or yaml)", format)
	}
}
