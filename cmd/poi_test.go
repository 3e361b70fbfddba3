package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sworrl/WanderMage-sub002/internal/model"
)

func TestPOIQuery(t *testing.T) {
	q, err := poiQuery("NM", "campground", 25)
	require.NoError(t, err)
	assert.Equal(t, "NM", q.State)
	assert.Equal(t, model.POICampground, q.Type)
	assert.Equal(t, 25, q.Limit)
}

func TestPOIQuery_UnknownType(t *testing.T) {
	_, err := poiQuery("", "casino", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "casino"`)
	assert.Contains(t, err.Error(), "campground")
}

func TestFormatPOIList(t *testing.T) {
	pois := []model.POI{
		{
			ID:        "poi-1",
			Name:      "City of Rocks SP",
			Type:      model.POICampground,
			State:     "NM",
			Rating:    4.7,
			Latitude:  32.5868,
			Longitude: -107.9745,
		},
		{
			ID:        "poi-2",
			Name:      "Loves 277",
			Type:      model.POIFuel,
			State:     "TX",
			Latitude:  31.2504,
			Longitude: -101.8382,
		},
	}

	var buf bytes.Buffer
	formatPOIList(&buf, pois)

	out := buf.String()
	assert.Contains(t, out, "City of Rocks SP")
	assert.Contains(t, out, "campground")
	assert.Contains(t, out, "4.7")
	assert.Contains(t, out, "32.5868,-107.9745")
	// Unrated POIs show a dash, not a zero rating.
	assert.Contains(t, out, "Loves 277")
	assert.NotContains(t, out, "0.0 ")
}
