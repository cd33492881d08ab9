package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/i474232898/agripulse/internal/advisory"
	"github.com/i474232898/agripulse/internal/agronomy"
)

func cropsCommand(service func() (*advisory.Service, error)) *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "crops",
		Short: "List the crop catalog or export it as a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return err
			}
			catalog := svc.Engine().Catalog()

			if xlsxPath != "" {
				f, err := os.Create(xlsxPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", xlsxPath, err)
				}
				if err := agronomy.WriteCatalogXLSX(f, catalog); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d crops to %s\n", catalog.Len(), xlsxPath)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CROP\tBASELINE\tCAP\tTEMP °C\tRAIN MM\tN-P-K")
			for _, p := range catalog.Profiles() {
				r := catalog.Resolve(p.Name)
				rain := "-"
				if r.Rainfall != nil {
					rain = fmt.Sprintf("%g-%g", r.Rainfall.Min, r.Rainfall.Max)
				}
				fmt.Fprintf(tw, "%s\t%g\t%g\t%g-%g\t%s\t%g-%g-%g\n",
					r.Name, r.BaselineYield, r.CapYield,
					r.Temperature.Min, r.Temperature.Max, rain,
					r.NPK.N, r.NPK.P, r.NPK.K)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the catalog to this .xlsx file instead of printing it")
	return cmd
}
