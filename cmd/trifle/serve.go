package main

import (
	"github.com/joeydtaylor/trifle/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the manifest's controllers over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := serverfx.DefaultOptions()
		opts.DefaultManifest = resolveManifest()
		opts.ManifestEnv = "" // the flag already folded the env var in
		fx.New(serverfx.Module(opts)).Run()
		return nil
	},
}
