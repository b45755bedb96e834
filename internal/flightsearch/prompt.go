package flightsearch

import (
	"fmt"

	"rufay/internal/models"
)

const promptTemplate = `You are a flight data API simulator. Generate a realistic, internally consistent list of %d flight itineraries for %s for %s. The results must read like a live booking system.

Rules:
1. Airlines and routes: only real airlines that plausibly fly the route or a logical connection through a major hub.
2. Pricing: a believable total price in INR for all passengers, reflecting route, trip type, passenger mix and whether the flight is direct.
3. Layovers: connecting airports must be hubs of the airline; layovers last between 45 minutes and 5 hours.
4. Chronology: every arrival is departure plus duration, and later legs depart after earlier ones arrive.
5. Flight numbers use real formats such as "EK-215" or "6E-2048".
6. totalDuration equals the sum of leg durations and layovers.

Respond ONLY with a JSON array, no prose and no markdown, where each element is:
{
  "id": "string",
  "totalPrice": number,
  "totalDuration": "string, e.g. 14h 30m",
  "outboundLegs": [
    {
      "airline": "string",
      "flightNumber": "string",
      "from": "airport code",
      "to": "airport code",
      "departureTime": "ISO 8601",
      "arrivalTime": "ISO 8601",
      "duration": "string, e.g. 8h 15m",
      "layoverDuration": "string, only when another leg follows"
    }
  ],
  "returnLegs": [ same structure, only for round trips ]
}`

func buildPrompt(c models.SearchCriteria, results int) string {
	trip := fmt.Sprintf("a one-way trip from %s to %s departing on %s", c.From, c.To, c.DepartureDate)
	if c.TripType == models.TripRoundTrip {
		trip = fmt.Sprintf("a round trip from %s to %s departing on %s and returning on %s",
			c.From, c.To, c.DepartureDate, c.ReturnDate)
	}
	passengers := fmt.Sprintf("%d adult(s), %d child(ren), %d infant(s)",
		c.Passengers.Adults, c.Passengers.Children, c.Passengers.Infants)
	return fmt.Sprintf(promptTemplate, results, trip, passengers)
}
