package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// censusResponse is the JSON response from the Census one-line API.
type censusResponse struct {
	Result struct {
		AddressMatches []censusMatch `json:"addressMatches"`
	} `json:"result"`
}

type censusMatch struct {
	Coordinates struct {
		X float64 `json:"x"` // longitude
		Y float64 `json:"y"` // latitude
	} `json:"coordinates"`
	MatchedAddress string `json:"matchedAddress"`
}

// Geocode resolves a one-line address via the Census geocoder, consulting
// the cache first. Cached misses short-circuit to ErrNoMatch without a
// network call.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	oneLine := strings.Join(strings.Fields(address), " ")
	if oneLine == "" {
		return nil, eris.New("geocode: empty address")
	}

	key := cacheKey(oneLine)
	if cached, ok := g.cache.get(key); ok {
		if cached == nil {
			return nil, eris.Wrapf(ErrNoMatch, "geocode: address %q", oneLine)
		}
		return cached, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: census rate limit")
	}

	params := url.Values{
		"address":   {oneLine},
		"benchmark": {g.benchmark},
		"format":    {"json"},
	}
	reqURL := g.baseURL + onelinePath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census build request")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: census returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: census read body")
	}

	var censusResp censusResponse
	if err := json.Unmarshal(body, &censusResp); err != nil {
		return nil, eris.Wrap(err, "geocode: census parse response")
	}

	if len(censusResp.Result.AddressMatches) == 0 {
		g.cache.put(key, nil)
		zap.L().Debug("geocode miss", zap.String("address", oneLine))
		return nil, eris.Wrapf(ErrNoMatch, "geocode: address %q", oneLine)
	}

	match := censusResp.Result.AddressMatches[0]
	result := &Result{
		Latitude:       match.Coordinates.Y,
		Longitude:      match.Coordinates.X,
		MatchedAddress: match.MatchedAddress,
	}
	g.cache.put(key, result)
	return result, nil
}

// cacheKey lowercases and collapses whitespace so equivalent spellings of
// an address share a cache entry.
func cacheKey(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
