package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/i474232898/agripulse/internal/advisory"
)

type assessFlags struct {
	crop, previousCrop string
	n, p, k, ph        float64
	temp, rainfall     float64
	city, country      string
	rawYield           float64
	asJSON             bool
}

func assessCommand(service func() (*advisory.Service, error)) *cobra.Command {
	var f assessFlags

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a soil sample, adjust a yield prediction and print fertilizer advice",
		Example: `  agripulsectl assess --crop rice --n 200 --p 20 --k 100 --ph 7 --temp 25 --rainfall 1500
  agripulsectl assess --crop wheat --n 50 --p 30 --k 20 --ph 6.8 --city Ludhiana --country IN --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return err
			}

			req := advisory.Request{
				Crop:         f.crop,
				PreviousCrop: f.previousCrop,
				City:         f.city,
				Country:      f.country,
			}
			// Soil flags are bound only when given so a missing value is
			// reported as required instead of silently read as zero.
			flags := cmd.Flags()
			for name, b := range map[string]struct {
				src float64
				dst **float64
			}{
				"n":         {f.n, &req.Nitrogen},
				"p":         {f.p, &req.Phosphorus},
				"k":         {f.k, &req.Potassium},
				"ph":        {f.ph, &req.PH},
				"temp":      {f.temp, &req.TemperatureC},
				"rainfall":  {f.rainfall, &req.AnnualRainfallMm},
				"raw-yield": {f.rawYield, &req.RawYield},
			} {
				if flags.Changed(name) {
					v := b.src
					*b.dst = &v
				}
			}

			res, err := svc.Assess(cmd.Context(), req)
			if err != nil {
				return err
			}
			if f.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.crop, "crop", "", "Crop to assess (required)")
	fl.StringVar(&f.previousCrop, "previous-crop", "", "Crop grown in the previous season")
	fl.Float64Var(&f.n, "n", 0, "Soil nitrogen in kg/ha (required)")
	fl.Float64Var(&f.p, "p", 0, "Soil phosphorus in kg/ha (required)")
	fl.Float64Var(&f.k, "k", 0, "Soil potassium in kg/ha (required)")
	fl.Float64Var(&f.ph, "ph", 0, "Soil pH, 0-14 (required)")
	fl.Float64Var(&f.temp, "temp", 0, "Average temperature in °C; looked up from --city when omitted")
	fl.Float64Var(&f.rainfall, "rainfall", 0, "Annual rainfall in mm; looked up from --city when omitted")
	fl.StringVar(&f.city, "city", "", "City or region used for the climate lookup")
	fl.StringVar(&f.country, "country", "", "Country code used for the climate lookup")
	fl.Float64Var(&f.rawYield, "raw-yield", 0, "Raw yield prediction in kg/ha; skips the predictor")
	fl.BoolVar(&f.asJSON, "json", false, "Print the full result as JSON")
	_ = cmd.MarkFlagRequired("crop")

	return cmd
}

func printResult(w io.Writer, res advisory.Result) {
	fmt.Fprintf(w, "Crop: %s\n", res.Crop)
	fmt.Fprintf(w, "Climate: %.1f °C, %.0f mm/year (%s)\n",
		res.Input.Climate.TemperatureC, res.Input.Climate.AnnualRainfallMm, res.ClimateSource)
	fmt.Fprintf(w, "Soil Fertility Score: %d\n", res.FertilityScore)
	fmt.Fprintf(w, "Predicted Remark: %s\n", res.Yield.Remark)
	fmt.Fprintf(w, "Predicted Yield: %.2f kg/ha (raw %.2f, %s)\n",
		res.Yield.AdjustedYield, res.Yield.RawYield, res.PredictionSource)
	fmt.Fprintln(w, "Recommendations:")
	for _, rec := range res.Recommendations {
		fmt.Fprintf(w, "- %s\n", rec)
	}
}
