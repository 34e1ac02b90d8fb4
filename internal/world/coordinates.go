package world

import (
	"fmt"
	"math"
)

// MarsRadiusKm is the mean radius used for surface distances.
const MarsRadiusKm = 3389.5

// Coordinates is a surface position in degrees.
type Coordinates struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Lat, c.Lon)
}

// DistanceTo returns the great-circle distance in km.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	if c == other {
		return 0
	}
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * MarsRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// MoveToward returns the point reached after travelling km along the
// straight line in lat/lon space toward dest, clamped at dest.
func (c Coordinates) MoveToward(dest Coordinates, km float64) Coordinates {
	total := c.DistanceTo(dest)
	if total <= km || total == 0 {
		return dest
	}
	f := km / total
	return Coordinates{
		Lat: c.Lat + (dest.Lat-c.Lat)*f,
		Lon: c.Lon + (dest.Lon-c.Lon)*f,
	}
}

// NavPoint is a named destination on a mission route.
type NavPoint struct {
	Name                 string
	Location             Coordinates
	Settlement           Settlement // nil for field sites
	DistanceFromPrevious float64    // km
}

func (n NavPoint) IsSettlement() bool {
	return n.Settlement != nil
}
