package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/config"
	"github.com/sells-group/crime-map/internal/crimemap"
)

var (
	renderDistricts []string
	renderAll       bool
	renderOutput    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one map document to a file or stdout",
	Example: `  crime-map render --district MISSION --district BAYVIEW -o map.html
  crime-map render --all > map.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("render"); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if renderOutput != "" && renderOutput != "-" {
			f, err := os.Create(renderOutput)
			if err != nil {
				return eris.Wrapf(err, "render: create %s", renderOutput)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		return runRender(cmd.Context(), cfg, renderDistricts, renderAll, out)
	},
}

// runRender loads the data, renders the selection and writes the document.
// all selects every district and overrides districts.
func runRender(ctx context.Context, c *config.Config, districts []string, all bool, w io.Writer) error {
	svc, err := crimemap.Build(ctx, c)
	if err != nil {
		return err
	}
	if all {
		districts = svc.DefaultSelection()
	}

	doc, err := svc.Update(districts)
	if err != nil {
		return err
	}
	if _, err := w.Write(doc.Bytes()); err != nil {
		return eris.Wrap(err, "render: write document")
	}

	zap.L().Info("render: document written",
		zap.Strings("districts", districts),
		zap.Int("bytes", doc.Len()),
	)
	return nil
}

func init() {
	renderCmd.Flags().StringArrayVar(&renderDistricts, "district", nil, "district to select (repeatable)")
	renderCmd.Flags().BoolVar(&renderAll, "all", false, "select every district")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
