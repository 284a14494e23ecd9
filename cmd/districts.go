package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/crime-map/internal/config"
	"github.com/sells-group/crime-map/internal/crimemap"
	"github.com/sells-group/crime-map/internal/dataset"
	"github.com/sells-group/crime-map/internal/model"
)

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List loaded districts with crime level and share",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("render"); err != nil {
			return err
		}
		return runDistricts(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func runDistricts(ctx context.Context, c *config.Config, w io.Writer) error {
	base, err := dataset.Load(ctx, crimemap.Sources(c))
	if err != nil {
		return err
	}
	return printDistricts(w, base)
}

// printDistricts writes one row per boundary, in boundary order.
func printDistricts(w io.Writer, base *model.Base) error {
	incidents := make(map[string]int)
	for _, inc := range base.Incidents {
		incidents[inc.District]++
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISTRICT\tCRIME LEVEL\tPERCENTAGE\tINCIDENTS")
	for _, d := range base.Districts {
		fmt.Fprintf(tw, "%s\t%g\t%s\t%d\n", d.Name, d.CrimeLevel, d.Percentage, incidents[d.Name])
	}
	fmt.Fprintf(tw, "TOTAL\t%g\t\t%d\n", base.TotalCrime, len(base.Incidents))
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(districtsCmd)
}
