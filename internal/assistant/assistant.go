// Package assistant produces AI stop suggestions for a trip from candidate
// POIs near the planned route.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/config"
	"github.com/sworrl/WanderMage-sub002/internal/model"
	"github.com/sworrl/WanderMage-sub002/pkg/anthropic"
)

// maxSuggestions caps how many stops a single reply may propose.
const maxSuggestions = 5

const suggestSystemPrompt = `You help RV travelers pick overnight and day stops. Given a trip and a list of candidate stops near its route, choose the ones most worth adding. Respond with a valid JSON object: {"suggestions":[{"poi_id":"<id>","reason":"<one sentence>"}]} with at most 5 suggestions ordered best first. Only use poi_id values from the candidate list.`

const suggestUserPrompt = `Trip: %s
Dates: %s
Planned route:
%s
Candidate stops near the route:
%s
Suggest up to 5 stops from the candidates that best fit this trip.`

// ErrNoCandidates means no POIs were found near the trip's route.
var ErrNoCandidates = eris.New("assistant: no candidate stops near route")

// Suggestion pairs a recommended POI with the model's reasoning.
type Suggestion struct {
	POI    model.POI `json:"poi"`
	Reason string    `json:"reason"`
}

// Suggester asks Claude for stop suggestions.
type Suggester struct {
	ai        anthropic.Client
	model     string
	maxTokens int64
}

// New creates a Suggester from the configured model settings.
func New(ai anthropic.Client, cfg config.AnthropicConfig) *Suggester {
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Suggester{
		ai:        ai,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Suggest asks for up to five stops picked from the candidates. Candidates
// should already be corridor-filtered (see NearRoute); their IDs anchor the
// reply back to real POIs.
func (s *Suggester) Suggest(ctx context.Context, trip model.Trip, candidates []model.POI) ([]Suggestion, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	resp, err := s.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    suggestSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(trip, candidates)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "assistant: create message")
	}
	resp.Usage.LogCost(s.model)

	suggestions, err := parseSuggestions(resp.Text(), candidates)
	if err != nil {
		return nil, eris.Wrap(err, "assistant: parse suggestions")
	}
	return suggestions, nil
}

// buildPrompt renders the trip and candidates into the user message.
func buildPrompt(trip model.Trip, candidates []model.POI) string {
	var route strings.Builder
	for _, stop := range trip.Stops {
		fmt.Fprintf(&route, "  %d. %s (%s), %d nights\n", stop.Order, stop.Label, stop.State, stop.Nights)
	}
	if route.Len() == 0 {
		route.WriteString("  (no stops planned yet)\n")
	}

	var cands strings.Builder
	for _, p := range candidates {
		fmt.Fprintf(&cands, "  - poi_id=%s name=%q type=%s state=%s rating=%.1f\n",
			p.ID, p.Name, p.Type, p.State, p.Rating)
	}

	return fmt.Sprintf(suggestUserPrompt, trip.Name, fmtDates(trip), route.String(), cands.String())
}

func fmtDates(trip model.Trip) string {
	if trip.StartDate == nil {
		return "not scheduled"
	}
	if trip.EndDate == nil {
		return trip.StartDate.Format("2006-01-02")
	}
	return trip.StartDate.Format("2006-01-02") + " to " + trip.EndDate.Format("2006-01-02")
}

// parseSuggestions decodes the model reply and joins poi_id values back to
// the candidate POIs. Unknown or repeated IDs are dropped, not fatal.
func parseSuggestions(text string, candidates []model.POI) ([]Suggestion, error) {
	var reply struct {
		Suggestions []struct {
			POIID  string `json:"poi_id"`
			Reason string `json:"reason"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &reply); err != nil {
		return nil, eris.Wrap(err, "decode reply")
	}

	byID := make(map[string]model.POI, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}

	seen := make(map[string]bool)
	var out []Suggestion
	for _, s := range reply.Suggestions {
		poi, ok := byID[s.POIID]
		if !ok {
			zap.L().Warn("suggestion references unknown poi",
				zap.String("poi_id", s.POIID),
			)
			continue
		}
		if seen[s.POIID] {
			continue
		}
		seen[s.POIID] = true
		out = append(out, Suggestion{POI: poi, Reason: s.Reason})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
