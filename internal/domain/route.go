package domain

import "github.com/paulmach/orb"

const RouteTypeToDemand = "to_demand"

// Segment is one leg of a route: a polyline with its own travel time and
// distance. StartTime and EndTime are absolute simulation seconds.
type Segment struct {
	Index     int            `json:"index"`
	Name      string         `json:"name,omitempty"`
	StartTime float64        `json:"startTime"`
	EndTime   float64        `json:"endTime"`
	Duration  float64        `json:"duration"`
	Distance  float64        `json:"distance"`
	Polyline  orb.LineString `json:"coordinates"`
}

// Route is the planned path of one vehicle to one demand.
// It is created once per successful dispatch and never modified afterwards.
// Duration is in seconds, Distance in meters.
type Route struct {
	ID            string    `json:"id"`
	VehicleID     string    `json:"vehicleId"`
	DemandID      string    `json:"demandId"`
	Type          string    `json:"type"`
	StartTime     int       `json:"startTime"`
	EndTime       int       `json:"endTime"`
	Duration      int       `json:"duration"`
	Distance      float64   `json:"distance"`
	StartLocation orb.Point `json:"startLocation"`
	EndLocation   orb.Point `json:"endLocation"`
	Segments      []Segment `json:"segments"`
}

// hasGeometry reports whether any segment carries at least one vertex.
func (r *Route) hasGeometry() bool {
	for _, s := range r.Segments {
		if len(s.Polyline) > 0 {
			return true
		}
	}
	return false
}
