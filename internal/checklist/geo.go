package checklist

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
)

const earthRadiusMeters = 6371000.0

// ErrNoFix is returned by a Locator that has no usable position.
var ErrNoFix = errors.New("no position fix")

// Position is a WGS84 coordinate.
type Position struct {
	Lat float64
	Lon float64
}

// Shop is a branch location used for the geofence.
type Shop struct {
	Name     string
	Position Position
}

// DefaultShops are the branch coordinates.
var DefaultShops = []Shop{
	{Name: "Prenzlauer Berg", Position: Position{Lat: 52.5388, Lon: 13.4246}},
	{Name: "Schoeneberg", Position: Position{Lat: 52.4862, Lon: 13.3530}},
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Position) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Geofence is a set of circles around the shops.
type Geofence struct {
	Shops        []Shop
	RadiusMeters float64
}

// Contains reports whether p lies within the radius of any shop.
func (g Geofence) Contains(p Position) bool {
	for _, shop := range g.Shops {
		if Distance(p, shop.Position) <= g.RadiusMeters {
			return true
		}
	}
	return false
}

// Locator resolves the device's current position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// LastKnown is a Locator fed by positions the client reports.
type LastKnown struct {
	maxAge time.Duration
	now    func() time.Time

	mu       sync.Mutex
	position Position
	at       time.Time
	known    bool
}

// NewLastKnown returns a locator whose reports expire after maxAge.
func NewLastKnown(maxAge time.Duration) *LastKnown {
	return &LastKnown{maxAge: maxAge, now: time.Now}
}

// Report records the latest client position.
func (l *LastKnown) Report(p Position) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
	l.at = l.now()
	l.known = true
}

// Forget drops the stored position, e.g. after the client denied access.
func (l *LastKnown) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.known = false
}

func (l *LastKnown) Locate(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.known || (l.maxAge > 0 && l.now().Sub(l.at) > l.maxAge) {
		return Position{}, ErrNoFix
	}
	return l.position, nil
}
