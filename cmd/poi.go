package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/pkg/geocode"
)

var poiCmd = &cobra.Command{
	Use:   "poi",
	Short: "Query points of interest",
}

var (
	poiListState string
	poiListType  string
	poiListLimit int
)

var poiListCmd = &cobra.Command{
	Use:   "list",
	Short: "List POIs by state or type",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := poiQuery(poiListState, poiListType, poiListLimit)
		if err != nil {
			return err
		}

		pois, err := apiClient().ListPOIs(cmd.Context(), q)
		if err != nil {
			return checkSession(err)
		}
		if len(pois) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No POIs found")
			return nil
		}

		formatPOIList(os.Stdout, pois)
		return nil
	},
}

var (
	nearAddress string
	nearLat     float64
	nearLon     float64
	nearRadius  float64
	nearType    string
	nearLimit   int
)

var poiNearCmd = &cobra.Command{
	Use:   "near",
	Short: "Find POIs around an address or coordinates",
	Long:  "Resolves --address through the Census geocoder when coordinates are not given, then lists POIs within --radius miles.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		q, err := poiQuery("", nearType, nearLimit)
		if err != nil {
			return err
		}
		q.Radius = nearRadius

		switch {
		case nearAddress != "":
			coder := geocode.NewClient(cfg.Geocode)
			res, err := coder.Geocode(ctx, nearAddress)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Matched: %s\n\n", res.MatchedAddress)
			q.Lat, q.Lon = res.Latitude, res.Longitude
		case nearLat != 0 || nearLon != 0:
			q.Lat, q.Lon = nearLat, nearLon
		default:
			return eris.New("poi near: give --address or --lat/--lon")
		}

		pois, err := apiClient().ListPOIs(ctx, q)
		if err != nil {
			return checkSession(err)
		}
		if len(pois) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing within range")
			return nil
		}

		formatPOIList(os.Stdout, pois)
		return nil
	},
}

// poiQuery validates flag values into a backend query.
func poiQuery(state, typ string, limit int) (model.POIQuery, error) {
	q := model.POIQuery{State: state, Limit: limit}
	if typ != "" {
		if !model.ValidPOIType(typ) {
			return model.POIQuery{}, eris.Errorf("poi: unknown type %q (want one of %v)", typ, model.POITypes)
		}
		q.Type = model.POIType(typ)
	}
	return q, nil
}

func formatPOIList(out io.Writer, pois []model.POI) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTYPE\tSTATE\tRATING\tCOORDS")
	_, _ = fmt.Fprintln(w, "----\t----\t-----\t------\t------")

	for _, p := range pois {
		rating := "-"
		if p.Rating > 0 {
			rating = fmt.Sprintf("%.1f", p.Rating)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f,%.4f\n",
			p.Name, p.Type, p.State, rating, p.Latitude, p.Longitude)
	}
	_ = w.Flush()
}

func init() {
	poiListCmd.Flags().StringVar(&poiListState, "state", "", "filter by USPS state code")
	poiListCmd.Flags().StringVar(&poiListType, "type", "", "filter by POI type")
	poiListCmd.Flags().IntVar(&poiListLimit, "limit", 50, "cap the number of POIs returned")

	poiNearCmd.Flags().StringVar(&nearAddress, "address", "", "one-line address to search around")
	poiNearCmd.Flags().Float64Var(&nearLat, "lat", 0, "latitude to search around")
	poiNearCmd.Flags().Float64Var(&nearLon, "lon", 0, "longitude to search around")
	poiNearCmd.Flags().Float64Var(&nearRadius, "radius", 50, "search radius in miles")
	poiNearCmd.Flags().StringVar(&nearType, "type", "", "filter by POI type")
	poiNearCmd.Flags().IntVar(&nearLimit, "limit", 25, "cap the number of POIs returned")

	poiCmd.AddCommand(poiListCmd)
	poiCmd.AddCommand(poiNearCmd)
	rootCmd.AddCommand(poiCmd)
}
