package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sworrl/WanderMage-sub002/internal/assistant"
	"github.com/sworrl/WanderMage-sub002/internal/model"
)

type mockSuggestSource struct {
	mock.Mock
}

func (m *mockSuggestSource) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

func (m *mockSuggestSource) ListPOIs(ctx context.Context, q model.POIQuery) ([]model.POI, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.POI), args.Error(1)
}

var _ suggestSource = (*mockSuggestSource)(nil)

func TestGatherCandidates(t *testing.T) {
	trip := model.Trip{
		ID:   "t-1",
		Name: "Desert Loop",
		Stops: []model.Stop{
			{Order: 1, Latitude: 34.94, Longitude: -101.66},
			{Order: 2, POIID: "p-on-trip"}, // no coords, skipped as a search center
			{Order: 3, Latitude: 32.59, Longitude: -107.97},
		},
	}

	src := new(mockSuggestSource)
	src.On("ListPOIs", mock.Anything, model.POIQuery{Lat: 34.94, Lon: -101.66, Radius: 25, Limit: candidatesAtStop}).
		Return([]model.POI{
			{ID: "p-1", Name: "Palo Duro"},
			{ID: "p-2", Name: "Caprock Canyons"},
		}, nil).Once()
	src.On("ListPOIs", mock.Anything, model.POIQuery{Lat: 32.59, Lon: -107.97, Radius: 25, Limit: candidatesAtStop}).
		Return([]model.POI{
			{ID: "p-2", Name: "Caprock Canyons"}, // duplicate across stops
			{ID: "p-on-trip", Name: "Already Planned"},
			{ID: "p-3", Name: "City of Rocks"},
		}, nil).Once()

	got, err := gatherCandidates(context.Background(), src, trip, 25)
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p-1", "p-2", "p-3"}, ids)
	src.AssertExpectations(t)
}

func TestGatherCandidates_CapsTheList(t *testing.T) {
	trip := model.Trip{Stops: []model.Stop{{Order: 1, Latitude: 40, Longitude: -105}}}

	big := make([]model.POI, 60)
	for i := range big {
		big[i] = model.POI{ID: fmt.Sprintf("p-%d", i)}
	}

	src := new(mockSuggestSource)
	src.On("ListPOIs", mock.Anything, mock.Anything).Return(big, nil)

	got, err := gatherCandidates(context.Background(), src, trip, 25)
	require.NoError(t, err)
	assert.Len(t, got, maxCandidates)
}

func TestGatherCandidates_PropagatesErrors(t *testing.T) {
	trip := model.Trip{Stops: []model.Stop{{Order: 4, Latitude: 40, Longitude: -105}}}

	src := new(mockSuggestSource)
	src.On("ListPOIs", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := gatherCandidates(context.Background(), src, trip, 25)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POIs near stop 4")
}

func TestMirrorSource_GetTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.SaveTrips(ctx, []model.Trip{
		{ID: "t-1", Name: "Desert Loop", Status: model.TripActive},
		{ID: "t-2", Name: "Fall Colors", Status: model.TripPlanned},
	})
	require.NoError(t, err)

	src := mirrorSource{st: st}

	trip, err := src.GetTrip(ctx, "t-2")
	require.NoError(t, err)
	assert.Equal(t, "Fall Colors", trip.Name)

	_, err = src.GetTrip(ctx, "t-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the mirror")
	assert.Contains(t, err.Error(), "mirror sync")
}

func TestFormatSuggestions(t *testing.T) {
	trip := &model.Trip{Name: "Desert Loop"}
	suggestions := []assistant.Suggestion{
		{
			POI:    model.POI{Name: "City of Rocks SP", Type: model.POICampground, State: "NM"},
			Reason: "Quiet boondocking halfway between stops 2 and 3.",
		},
		{
			POI:    model.POI{Name: "Pie Town Cafe", Type: model.POIAttraction, State: "NM"},
			Reason: "Short detour, famous pie.",
		},
	}

	var buf bytes.Buffer
	formatSuggestions(&buf, trip, suggestions)

	out := buf.String()
	assert.Contains(t, out, "Suggested stops for Desert Loop:")
	assert.Contains(t, out, "1. City of Rocks SP (campground, NM)")
	assert.Contains(t, out, "Quiet boondocking")
	assert.Contains(t, out, "2. Pie Town Cafe (attraction, NM)")
}
