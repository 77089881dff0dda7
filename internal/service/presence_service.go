package service

import (
	"math"
	"sort"
	"time"

	"geochat/internal/entity"
	"geochat/internal/repository"
)

const earthRadiusMeters = 6371000

// NearbyUser is one proximity-search hit.
type NearbyUser struct {
	Username string  `json:"username"`
	Lng      float64 `json:"lng"`
	Lat      float64 `json:"lat"`
	Avatar   string  `json:"avatar"`
}

type PresenceService interface {
	// Report overwrites the user's last known position.
	Report(username string, lng, lat float64, avatar string) error
	ListAll() ([]*entity.Location, error)
	// Nearby returns every stored location within radiusMeters of the center
	// (boundary included), nearest first, capped at limit. Non-positive
	// radius and limit fall back to the configured defaults.
	Nearby(centerLng, centerLat, radiusMeters float64, limit int) ([]NearbyUser, error)
}

type localPresenceService struct {
	locations     repository.LocationRepository
	defaultRadius float64
	defaultLimit  int
}

func NewPresenceService(locations repository.LocationRepository, defaultRadius float64, defaultLimit int) PresenceService {
	return &localPresenceService{
		locations:     locations,
		defaultRadius: defaultRadius,
		defaultLimit:  defaultLimit,
	}
}

func (s *localPresenceService) Report(username string, lng, lat float64, avatar string) error {
	if username == "" {
		return ErrInvalidInput
	}
	return s.locations.Upsert(&entity.Location{
		Username:  username,
		Lng:       lng,
		Lat:       lat,
		Avatar:    avatar,
		UpdatedAt: time.Now(),
	})
}

func (s *localPresenceService) ListAll() ([]*entity.Location, error) {
	return s.locations.ListAll()
}

func (s *localPresenceService) Nearby(centerLng, centerLat, radiusMeters float64, limit int) ([]NearbyUser, error) {
	if radiusMeters <= 0 {
		radiusMeters = s.defaultRadius
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	locations, err := s.locations.ListAll()
	if err != nil {
		return nil, err
	}

	type hit struct {
		user NearbyUser
		dist float64
	}
	hits := make([]hit, 0, len(locations))
	for _, loc := range locations {
		dist := haversine(centerLng, centerLat, loc.Lng, loc.Lat)
		if dist <= radiusMeters {
			hits = append(hits, hit{
				user: NearbyUser{Username: loc.Username, Lng: loc.Lng, Lat: loc.Lat, Avatar: loc.Avatar},
				dist: dist,
			})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	if len(hits) > limit {
		hits = hits[:limit]
	}
	result := make([]NearbyUser, len(hits))
	for i, h := range hits {
		result[i] = h.user
	}
	return result, nil
}

// haversine returns the great-circle distance in meters between two points.
func haversine(lng1, lat1, lng2, lat2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}
