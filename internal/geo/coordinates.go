// Package geo resolves free-text locations to coordinates via an external
// geocoding service and computes great-circle distances between them.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used for great-circle distance.
const earthRadiusKm = 6371.0088

// Coordinates is a latitude/longitude pair in degrees. It marshals as a
// two-element [lat, lon] JSON array, the wire shape callers expect.
type Coordinates struct {
	Lat float64
	Lon float64
}

// MarshalJSON encodes the pair as [lat, lon].
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

// UnmarshalJSON decodes a [lat, lon] array.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinates must be a [lat, lon] array: %w", err)
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

// Distance returns the haversine great-circle distance between a and b in
// kilometers.
func Distance(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RoundKm rounds a distance to 2 decimal places for presentation. Internal
// comparisons always use full precision.
func RoundKm(km float64) float64 {
	if math.IsInf(km, 1) {
		return km
	}
	return math.Round(km*100) / 100
}
