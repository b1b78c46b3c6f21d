// Command trifle serves the controllers declared in a manifest and
// inspects their delegated action mappings.
package main

import (
	"fmt"
	"os"

	"github.com/joeydtaylor/trifle/pkg/delegates/builtin"
	"github.com/joeydtaylor/trifle/pkg/loader"
	"github.com/spf13/cobra"
)

var manifestPath string

var rootCmd = &cobra.Command{
	Use:           "trifle",
	Short:         "Controllers composed from delegates",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "",
		"manifest path (default $TRIFLE_MANIFEST or manifest.toml)")
	rootCmd.AddCommand(serveCmd, actionsCmd)
}

func main() {
	if err := builtin.Register(loader.Default); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "trifle:", err)
		os.Exit(1)
	}
}

func resolveManifest() string {
	if manifestPath != "" {
		return manifestPath
	}
	if v := os.Getenv("TRIFLE_MANIFEST"); v != "" {
		return v
	}
	return "manifest.toml"
}
