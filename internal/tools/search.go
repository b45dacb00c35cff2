package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"googlemaps.github.io/maps"

	"github.com/Zburns31/AtlasTravelAssistant/internal/domain"
	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
)

const defaultMaxResults = 5

// DestinationRecord is one entry of a destination search result. An entry
// carrying only Err reports an upstream failure in-band.
type DestinationRecord struct {
	Name        string              `json:"name,omitempty"`
	Country     string              `json:"country,omitempty"`
	Description string              `json:"description,omitempty"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
	Note        string              `json:"note,omitempty"`
	Err         string              `json:"error,omitempty"`
}

type searchArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// DestinationSearch answers free-text destination queries. When a Google
// Maps client is configured it queries the Places text search; otherwise
// it returns a deterministic placeholder so the loop still functions.
type DestinationSearch struct {
	places *maps.Client
}

// NewDestinationSearch constructs the tool. apiKey may be empty, in which
// case the placeholder path is used.
func NewDestinationSearch(apiKey string) (*DestinationSearch, error) {
	if strings.TrimSpace(apiKey) == "" {
		return &DestinationSearch{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("search: create maps client: %w", err)
	}
	return &DestinationSearch{places: client}, nil
}

// Tool returns the registry entry for destination search.
func (s *DestinationSearch) Tool() Tool {
	return Tool{
		Definition: llm.ToolDefinition{
			Name:        "search_destinations",
			Description: "Search for travel destinations matching a free-text query. Returns name, country, description, and coordinates per match.",
			Parameters: llm.Schema{
				Type: "object",
				Properties: map[string]llm.Property{
					"query":       {Type: "string", Description: "Free-text search term, e.g. 'temples in Kyoto' or 'beach towns in Portugal'."},
					"max_results": {Type: "integer", Description: "Maximum number of results to return. Default 5, minimum 1."},
				},
				Required: []string{"query"},
			},
		},
		Handler: s.run,
	}
}

func (s *DestinationSearch) run(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args searchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return json.Marshal([]DestinationRecord{{Err: fmt.Sprintf("invalid arguments: %v", err)}})
	}
	if strings.TrimSpace(args.Query) == "" {
		return json.Marshal([]DestinationRecord{{Err: "query must not be empty"}})
	}
	if args.MaxResults == 0 {
		args.MaxResults = defaultMaxResults
	}
	if args.MaxResults < 1 {
		return json.Marshal([]DestinationRecord{{Err: "max_results must be >= 1"}})
	}

	if s.places == nil {
		return json.Marshal([]DestinationRecord{{
			Name:        titleCase(args.Query),
			Country:     "Unknown",
			Description: fmt.Sprintf("Search results for %q (integration pending).", args.Query),
			Note:        "Destination search integration pending; placeholder data.",
		}})
	}

	resp, err := s.places.TextSearch(ctx, &maps.TextSearchRequest{Query: args.Query})
	if err != nil {
		return json.Marshal([]DestinationRecord{{Err: fmt.Sprintf("search API request failed: %v", err)}})
	}

	records := make([]DestinationRecord, 0, args.MaxResults)
	for _, result := range resp.Results {
		records = append(records, DestinationRecord{
			Name:        result.Name,
			Country:     countryFromAddress(result.FormattedAddress),
			Description: result.FormattedAddress,
			Coordinates: &domain.Coordinates{Lat: result.Geometry.Location.Lat, Lon: result.Geometry.Location.Lng},
		})
		if len(records) >= args.MaxResults {
			break
		}
	}
	return json.Marshal(records)
}

// countryFromAddress takes the last comma-separated component of a
// formatted address, which Places puts the country in.
func countryFromAddress(addr string) string {
	parts := strings.Split(addr, ",")
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
