package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cartwise/store-service/internal/database"
	"github.com/cartwise/store-service/internal/pricedata"
	"github.com/cartwise/store-service/internal/recommender"
)

var (
	recommendLat     float64
	recommendLng     float64
	recommendRadius  float64
	recommendWeights []float64
	recommendOutput  string
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend <item> [item...]",
	Short: "Rank nearby stores for a grocery list",
	Long: `Rank the stores around a location for a grocery list. Each store gets
a weighted score from its price level, quality level, and distance, plus
an estimated basket total from recorded prices.`,
	Example: `  store-service recommend milk bread eggs --lat 40.7128 --lng -74.0060
  store-service recommend milk --lat 40.7 --lng -74.0 --weights 60,20,20 --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Float64Var(&recommendLat, "lat", 0, "Latitude (required)")
	recommendCmd.Flags().Float64Var(&recommendLng, "lng", 0, "Longitude (required)")
	recommendCmd.Flags().Float64Var(&recommendRadius, "radius", 0, "Search radius in km (default from config)")
	recommendCmd.Flags().Float64SliceVar(&recommendWeights, "weights", nil, "Price,quality,distance weights as percentages (default 40,30,30)")
	recommendCmd.Flags().StringVar(&recommendOutput, "output", "table", "Output format: table or json")
	recommendCmd.MarkFlagRequired("lat")
	recommendCmd.MarkFlagRequired("lng")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	weights := recommender.DefaultWeights()
	if len(recommendWeights) > 0 {
		if len(recommendWeights) != 3 {
			return fmt.Errorf("--weights needs exactly three values, got %d", len(recommendWeights))
		}
		weights = recommender.Weights{
			Price:    recommendWeights[0],
			Quality:  recommendWeights[1],
			Distance: recommendWeights[2],
		}
	}

	source := pricedata.New(database.Pool(), 5*time.Second)
	rec := recommender.New(source, source, recommender.DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recs, err := rec.Recommend(ctx, &recommender.Request{
		Items:    args,
		Location: recommender.Coordinate{Latitude: recommendLat, Longitude: recommendLng},
		Weights:  weights,
		RadiusKm: recommendRadius,
	})
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if recommendOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No stores found in range")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSTORE\tSCORE\tDISTANCE\tOPEN\tEST. TOTAL")
	for i, r := range recs {
		open := "no"
		if r.IsOpen {
			open = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f km\t%s\t%.2f\n",
			i+1, r.Name, r.TotalScore, r.DistanceKm, open, r.EstimatedTotal)
	}
	return w.Flush()
}
