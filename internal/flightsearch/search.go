package flightsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rufay/internal/logger"
	"rufay/internal/models"
)

// ErrInvalidCriteria is returned when a search request cannot be run
var ErrInvalidCriteria = errors.New("invalid search criteria")

// Searcher turns search criteria into validated itineraries
type Searcher struct {
	gen     Generator
	results int
	log     zerolog.Logger
}

func NewSearcher(gen Generator, results int) *Searcher {
	if results < 1 {
		results = 5
	}
	return &Searcher{
		gen:     gen,
		results: results,
		log:     logger.WithComponent("flight-search"),
	}
}

// ValidateCriteria checks a search request before anything is generated
func ValidateCriteria(c models.SearchCriteria) error {
	from, to := strings.TrimSpace(c.From), strings.TrimSpace(c.To)
	switch {
	case from == "" || to == "":
		return fmt.Errorf("origin and destination are required: %w", ErrInvalidCriteria)
	case strings.EqualFold(from, to):
		return fmt.Errorf("origin and destination must differ: %w", ErrInvalidCriteria)
	case c.DepartureDate == "":
		return fmt.Errorf("departure date is required: %w", ErrInvalidCriteria)
	case c.Passengers.Adults < 1:
		return fmt.Errorf("at least one adult is required: %w", ErrInvalidCriteria)
	case c.Passengers.Children < 0 || c.Passengers.Infants < 0:
		return fmt.Errorf("passenger counts must not be negative: %w", ErrInvalidCriteria)
	case c.Passengers.Infants > c.Passengers.Adults:
		return fmt.Errorf("each infant needs an accompanying adult: %w", ErrInvalidCriteria)
	}

	switch c.TripType {
	case models.TripOneWay:
	case models.TripRoundTrip:
		if c.ReturnDate == "" {
			return fmt.Errorf("return date is required for a round trip: %w", ErrInvalidCriteria)
		}
		if c.ReturnDate < c.DepartureDate {
			return fmt.Errorf("return date is before departure: %w", ErrInvalidCriteria)
		}
	default:
		return fmt.Errorf("unknown trip type %q: %w", c.TripType, ErrInvalidCriteria)
	}
	return nil
}

// Search asks the generator for itineraries. Generator failures and unusable output yield an
// empty list; malformed itineraries are dropped individually.
func (s *Searcher) Search(ctx context.Context, c models.SearchCriteria) ([]models.FlightItinerary, error) {
	if err := ValidateCriteria(c); err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, buildPrompt(c, s.results))
	if err != nil {
		s.log.Warn().Err(err).Str("from", c.From).Str("to", c.To).Msg("flight generator failed")
		return []models.FlightItinerary{}, nil
	}

	itineraries := s.parse(raw, c.TripType)
	s.log.Info().Str("from", c.From).Str("to", c.To).Int("results", len(itineraries)).Msg("flight search completed")
	return itineraries, nil
}

// parse decodes generator output item by item so one bad itinerary does not sink the rest
func (s *Searcher) parse(raw, tripType string) []models.FlightItinerary {
	itineraries := []models.FlightItinerary{}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &items); err != nil {
		s.log.Warn().Err(err).Msg("flight generator returned unparseable output")
		return itineraries
	}

	seen := make(map[string]bool)
	for i, item := range items {
		var it models.FlightItinerary
		if err := json.Unmarshal(item, &it); err != nil {
			s.log.Debug().Err(err).Int("index", i).Msg("dropping undecodable itinerary")
			continue
		}
		if err := ValidateItinerary(it, tripType); err != nil {
			s.log.Debug().Err(err).Int("index", i).Msg("dropping malformed itinerary")
			continue
		}
		if it.ID == "" || seen[it.ID] {
			it.ID = uuid.NewString()
		}
		seen[it.ID] = true
		itineraries = append(itineraries, it)
	}
	return itineraries
}

// stripFences removes a markdown code block around the payload if the model added one
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}

// ValidateItinerary checks the shape of one itinerary. Round trips need return legs.
func ValidateItinerary(it models.FlightItinerary, tripType string) error {
	if it.TotalPrice <= 0 {
		return errors.New("total price must be positive")
	}
	if err := validateLegs("outbound", it.OutboundLegs); err != nil {
		return err
	}
	if tripType == models.TripRoundTrip {
		if err := validateLegs("return", it.ReturnLegs); err != nil {
			return err
		}
	}
	return nil
}

func validateLegs(direction string, legs []models.FlightLeg) error {
	if len(legs) == 0 {
		return fmt.Errorf("%s legs are missing", direction)
	}
	for i, leg := range legs {
		if leg.Airline == "" || leg.FlightNumber == "" || leg.From == "" || leg.To == "" {
			return fmt.Errorf("%s leg %d: airline, flight number, from and to are required", direction, i)
		}
		dep, err := parseTime(leg.DepartureTime)
		if err != nil {
			return fmt.Errorf("%s leg %d departure: %w", direction, i, err)
		}
		arr, err := parseTime(leg.ArrivalTime)
		if err != nil {
			return fmt.Errorf("%s leg %d arrival: %w", direction, i, err)
		}
		if !arr.After(dep) {
			return fmt.Errorf("%s leg %d arrives before it departs", direction, i)
		}
	}
	return nil
}
