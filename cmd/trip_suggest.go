package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/assistant"
	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/internal/store"
	"github.com/sworrl/WanderMage-sub002/pkg/anthropic"
)

const (
	// maxCandidates caps the POI list sent to the model; prompts stay small
	// and the best nearby stops are plenty.
	maxCandidates    = 40
	candidatesAtStop = 15
)

var (
	suggestJSON    bool
	suggestOffline bool
	suggestRadius  float64
)

// suggestSource is the slice of the backend the suggester needs. The API
// client satisfies it directly; the mirror needs a thin adapter.
type suggestSource interface {
	GetTrip(ctx context.Context, id string) (*model.Trip, error)
	ListPOIs(ctx context.Context, q model.POIQuery) ([]model.POI, error)
}

var tripSuggestCmd = &cobra.Command{
	Use:   "suggest <trip-id>",
	Short: "Ask Claude for stop suggestions along a trip",
	Long:  "Collects POIs near the trip's planned stops and asks Claude to pick up to five worth adding, with reasons.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("suggest"); err != nil {
			return err
		}

		var src suggestSource
		if suggestOffline {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			src = mirrorSource{st: st}
		} else {
			src = apiClient()
		}

		trip, err := src.GetTrip(ctx, args[0])
		if err != nil {
			return checkSession(err)
		}

		candidates, err := gatherCandidates(ctx, src, *trip, suggestRadius)
		if err != nil {
			return checkSession(err)
		}
		zap.L().Debug("candidates gathered",
			zap.String("trip", trip.ID),
			zap.Int("count", len(candidates)),
		)

		suggester := assistant.New(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		suggestions, err := suggester.Suggest(ctx, *trip, candidates)
		if err != nil {
			return err
		}

		if suggestJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(suggestions)
		}

		formatSuggestions(os.Stdout, trip, suggestions)
		return nil
	},
}

// mirrorSource adapts the offline store to suggestSource.
type mirrorSource struct {
	st store.Store
}

func (m mirrorSource) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	trips, err := m.st.ListTrips(ctx, model.TripFilter{})
	if err != nil {
		return nil, err
	}
	for i := range trips {
		if trips[i].ID == id {
			return &trips[i], nil
		}
	}
	return nil, eris.Errorf("trip %q is not in the mirror (run `wandermage mirror sync`)", id)
}

func (m mirrorSource) ListPOIs(ctx context.Context, q model.POIQuery) ([]model.POI, error) {
	return m.st.ListPOIs(ctx, q)
}

// gatherCandidates collects POIs within radius miles of each stop that has
// coordinates, deduplicated and minus POIs the trip already includes.
func gatherCandidates(ctx context.Context, src suggestSource, trip model.Trip, radius float64) ([]model.POI, error) {
	onTrip := make(map[string]bool, len(trip.Stops))
	for _, s := range trip.Stops {
		if s.POIID != "" {
			onTrip[s.POIID] = true
		}
	}

	seen := make(map[string]bool)
	var candidates []model.POI
	for _, s := range trip.Stops {
		if s.Latitude == 0 && s.Longitude == 0 {
			continue
		}
		pois, err := src.ListPOIs(ctx, model.POIQuery{
			Lat:    s.Latitude,
			Lon:    s.Longitude,
			Radius: radius,
			Limit:  candidatesAtStop,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "trip suggest: POIs near stop %d", s.Order)
		}
		for _, p := range pois {
			if seen[p.ID] || onTrip[p.ID] {
				continue
			}
			seen[p.ID] = true
			candidates = append(candidates, p)
			if len(candidates) >= maxCandidates {
				return candidates, nil
			}
		}
	}
	return candidates, nil
}

func formatSuggestions(out io.Writer, trip *model.Trip, suggestions []assistant.Suggestion) {
	_, _ = fmt.Fprintf(out, "Suggested stops for %s:\n\n", trip.Name)
	for i, s := range suggestions {
		_, _ = fmt.Fprintf(out, "%d. %s (%s, %s)\n", i+1, s.POI.Name, s.POI.Type, s.POI.State)
		_, _ = fmt.Fprintf(out, "   %s\n", s.Reason)
	}
}

func init() {
	tripSuggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "print suggestions as JSON")
	tripSuggestCmd.Flags().BoolVar(&suggestOffline, "offline", false, "use the mirror instead of the API")
	tripSuggestCmd.Flags().Float64Var(&suggestRadius, "radius", 25, "candidate search radius around each stop, in miles")
	tripCmd.AddCommand(tripSuggestCmd)
}
