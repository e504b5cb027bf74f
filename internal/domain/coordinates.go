package domain

import "github.com/paulmach/orb"

// Geographic coordinates are carried as orb.Point, i.e. [lon, lat], which is
// also their JSON shape in results and provider payloads.

// Coord builds a point from longitude and latitude.
func Coord(lon, lat float64) orb.Point { return orb.Point{lon, lat} }

// CoordsToList returns coordinates as [lon, lat] for external API compatibility.
func CoordsToList(p orb.Point) []float64 { return []float64{p.Lon(), p.Lat()} }
