package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/joeydtaylor/trifle/pkg/controller"
	"github.com/joeydtaylor/trifle/pkg/core"
	"github.com/joeydtaylor/trifle/pkg/loader"
	"github.com/joeydtaylor/trifle/pkg/manifest"
	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [controller...]",
	Short: "Print each controller's delegated action mapping",
	Long: `Build every controller's delegation manager from the manifest and print
which delegate owns each action. Registration errors (unknown delegates,
duplicate actions) are reported exactly as a request would hit them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.LoadConfig(resolveManifest())
		if err != nil {
			return err
		}
		return printActions(cmd.OutOrStdout(), cfg, loader.Default, args)
	},
}

func printActions(out io.Writer, cfg manifest.Config, cat *loader.Catalog, only []string) error {
	ld := loader.New(cfg.Paths(), loader.WithCatalog(cat))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTROLLER\tACTION\tDELEGATE")

	for _, ct := range cfg.Controllers {
		if len(only) > 0 && !slices.Contains(only, ct.Name) {
			continue
		}
		host := controller.New(ct.Name,
			controller.WithDelegates(ct.Entries()...),
			controller.WithLoader(ld),
		)
		m, err := host.Manager()
		if err != nil {
			tw.Flush()
			return err
		}
		for _, a := range m.Actions() {
			d, err := m.DelegateForAction(a)
			if err != nil {
				tw.Flush()
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%T\n", ct.Name, a, d)
		}
	}
	return tw.Flush()
}
