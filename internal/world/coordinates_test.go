package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceTo(t *testing.T) {
	origin := Coordinates{}
	assert.Equal(t, 0.0, origin.DistanceTo(origin))

	// one degree of latitude on Mars is ~59.16 km
	d := origin.DistanceTo(Coordinates{Lat: 1})
	assert.InDelta(t, 59.16, d, 0.05)

	a := Coordinates{Lat: -4.5, Lon: 137.4}
	b := Coordinates{Lat: 18.4, Lon: 77.5}
	assert.InDelta(t, a.DistanceTo(b), b.DistanceTo(a), 1e-9)
}

func TestMoveToward(t *testing.T) {
	from := Coordinates{}
	to := Coordinates{Lat: 1}

	mid := from.MoveToward(to, 10)
	assert.InDelta(t, 10, from.DistanceTo(mid), 0.01)
	assert.InDelta(t, to.DistanceTo(mid), from.DistanceTo(to)-10, 0.01)

	assert.Equal(t, to, from.MoveToward(to, 1000), "overshoot clamps at destination")
	assert.Equal(t, to, to.MoveToward(to, 5))
}
