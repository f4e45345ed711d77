package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/checksum"
	"github.com/prodbyeagle/eagle/internal/minecraft"
	"github.com/prodbyeagle/eagle/internal/resolver"
)

const mcFetchHelp = `
Resolve a server jar and download it to --dest, verifying its SHA-256.

With --sha256 the given digest is trusted instead of the one published
upstream, and no digest lookups are made.
`

func newMCFetchCmd(a *app) *cobra.Command {
	var (
		art  artifactFlags
		opts minecraft.FetchOptions
		sum  string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a verified server jar to any path",
		Long:  mcFetchHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flavor, err := art.parse()
			if err != nil {
				return err
			}
			opts.Flavor = flavor
			opts.Version = art.version
			if !cmd.Flags().Changed("require-digest") {
				opts.RequireDigest = a.cfg.Minecraft.RequireDigest
			}

			var resolverOpts []resolver.Option
			if sum != "" {
				d, err := checksum.Normalize(sum)
				if err != nil {
					return err
				}
				opts.Expected = d
				resolverOpts = append(resolverOpts, resolver.WithoutDigestDiscovery())
			}
			return a.runMCFetch(cmd, opts, resolverOpts)
		},
	}

	art.register(cmd)
	f := cmd.Flags()
	f.StringVar(&opts.Dest, "dest", minecraft.JarFile, "destination file")
	f.StringVar(&sum, "sha256", "", "expected SHA-256 of the jar")
	f.BoolVar(&opts.RequireDigest, "require-digest", false, "refuse to download a jar that has no digest")
	return cmd
}

func (a *app) runMCFetch(cmd *cobra.Command, opts minecraft.FetchOptions, resolverOpts []resolver.Option) error {
	dest, err := filepath.Abs(opts.Dest)
	if err != nil {
		return err
	}
	opts.Dest = dest

	client := a.client()
	m := a.manager(a.resolver(client, resolverOpts...), a.downloader(client))

	res, err := m.Fetch(cmd.Context(), opts)
	if err != nil {
		return err
	}

	a.printer.Success("Downloaded %s %s to %s", opts.Flavor, res.Artifact.Version, res.Download.Path)
	if res.Download.Verified {
		a.printer.Muted("sha256 %s (%s)", checksum.Hex(res.Download.Digest), res.Artifact.DigestSource)
	} else {
		a.printer.Warning("Not verified: no digest was available")
		a.printer.Muted("sha256 %s", checksum.Hex(res.Download.Digest))
	}
	return nil
}
