package routing

import (
	"context"
	"dispatch-simulation-service/internal/domain"
	"dispatch-simulation-service/internal/platform/obs"
	"dispatch-simulation-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	DefaultORSBaseURL = "https://api.openrouteservice.org"
	DefaultORSProfile = "driving-car"
)

// ORSProvider implements RouteProvider and IsochroneProvider on top of the
// OpenRouteService directions and isochrones endpoints.
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration
}

func NewORSProvider(apiKey, baseURL, profile string) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultORSBaseURL
	}
	if profile == "" {
		profile = DefaultORSProfile
	}

	return &ORSProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     baseURL,
		profile:     profile,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

type orsStep struct {
	Distance  float64 `json:"distance"`
	Duration  float64 `json:"duration"`
	Name      string  `json:"name"`
	WayPoints []int   `json:"way_points"`
}

type orsDirectionsResponse struct {
	Features []struct {
		Geometry   geojson.Geometry `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Distance float64   `json:"distance"`
				Duration float64   `json:"duration"`
				Steps    []orsStep `json:"steps"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// Route fetches a driving route. ORS has no departure time for road
// profiles, so the departure hint is dropped.
func (o *ORSProvider) Route(
	ctx context.Context,
	origin, destination orb.Point,
	_ int,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if origin.Equal(destination) {
		return ports.RouteResult{
			Geometry: orb.LineString{origin, destination},
		}, nil
	}

	payload := map[string]any{
		"coordinates":  [][]float64{domain.CoordsToList(origin), domain.CoordsToList(destination)},
		"instructions": true,
	}

	raw, err := o.postJSON(ctx, "/v2/directions/"+o.profile+"/geojson", payload)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("ORS directions: %w", err)
	}

	return parseDirections(raw)
}

func parseDirections(raw []byte) (ports.RouteResult, error) {
	var resp orsDirectionsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ports.RouteResult{}, fmt.Errorf("ORS directions: decode response: %w", err)
	}
	if len(resp.Features) == 0 {
		return ports.RouteResult{}, errors.New("ORS directions: response has no route")
	}

	f := resp.Features[0]
	line, _ := f.Geometry.Geometry().(orb.LineString)

	res := ports.RouteResult{
		DurationSeconds: int(math.Round(f.Properties.Summary.Duration)),
		DistanceMeters:  f.Properties.Summary.Distance,
		Geometry:        line,
	}

	for _, seg := range f.Properties.Segments {
		for _, st := range seg.Steps {
			res.Segments = append(res.Segments, ports.RouteSegment{
				Name:            st.Name,
				DurationSeconds: st.Duration,
				DistanceMeters:  st.Distance,
				Polyline:        slicePolyline(line, st.WayPoints),
			})
		}
	}

	return res, nil
}

// slicePolyline returns the vertices between a step's way points, inclusive.
func slicePolyline(line orb.LineString, wp []int) orb.LineString {
	if len(wp) != 2 || len(line) == 0 {
		return nil
	}
	from, to := wp[0], wp[1]
	if from < 0 || to < from || to >= len(line) {
		return nil
	}

	out := make(orb.LineString, to-from+1)
	copy(out, line[from:to+1])
	return out
}

// Isochrone fetches the area reachable from origin within minutes.
func (o *ORSProvider) Isochrone(
	ctx context.Context,
	origin orb.Point,
	minutes int,
) (_ orb.MultiPolygon, err error) {
	defer obs.Time(ctx, "ors.Isochrone")(&err)

	if minutes <= 0 {
		return nil, fmt.Errorf("ORS isochrone: minutes must be positive, got %d", minutes)
	}

	payload := map[string]any{
		"locations":  [][]float64{domain.CoordsToList(origin)},
		"range":      []int{minutes * 60},
		"range_type": "time",
	}

	raw, err := o.postJSON(ctx, "/v2/isochrones/"+o.profile, payload)
	if err != nil {
		return nil, fmt.Errorf("ORS isochrone: %w", err)
	}

	return parseIsochrone(raw)
}

func parseIsochrone(raw []byte) (orb.MultiPolygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("ORS isochrone: decode response: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("ORS isochrone: response has no features")
	}

	geom := fc.Features[0].Geometry
	if geom == nil {
		return nil, errors.New("ORS isochrone: feature has no geometry")
	}

	switch g := geom.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	case orb.MultiPolygon:
		if len(g) > 0 {
			return g, nil
		}
	}

	return nil, fmt.Errorf("ORS isochrone: unexpected geometry %s", geom.GeoJSONType())
}
