package cache

import (
	"context"
	"dispatch-simulation-service/internal/ports"
	"encoding/json"
	"fmt"
	"log"

	"github.com/paulmach/orb"
)

// pointKey rounds to 6 decimals (~10 cm) so equal inputs share one entry.
func pointKey(p orb.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lon(), p.Lat())
}

// CachedRouteProvider consults a ProviderCache before delegating to Next.
// The departure hint is not part of the key.
type CachedRouteProvider struct {
	Next  ports.RouteProvider
	Cache ports.ProviderCache
}

func (c *CachedRouteProvider) Route(
	ctx context.Context,
	origin, destination orb.Point,
	departure int,
) (ports.RouteResult, error) {
	key := pointKey(origin) + "|" + pointKey(destination)

	if raw, ok, err := c.Cache.Get(ctx, ports.CacheKindRoute, key); err != nil {
		log.Printf("route cache read failed: %v", err)
	} else if ok {
		var res ports.RouteResult
		if err := json.Unmarshal(raw, &res); err == nil {
			return res, nil
		}
		log.Printf("route cache entry %q unreadable, refetching", key)
	}

	res, err := c.Next.Route(ctx, origin, destination, departure)
	if err != nil {
		return ports.RouteResult{}, err
	}

	if raw, err := json.Marshal(res); err == nil {
		if err := c.Cache.Put(ctx, ports.CacheKindRoute, key, raw); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return res, nil
}

// CachedIsochroneProvider consults a ProviderCache before delegating to Next.
type CachedIsochroneProvider struct {
	Next  ports.IsochroneProvider
	Cache ports.ProviderCache
}

func (c *CachedIsochroneProvider) Isochrone(
	ctx context.Context,
	origin orb.Point,
	minutes int,
) (orb.MultiPolygon, error) {
	key := fmt.Sprintf("%s|%d", pointKey(origin), minutes)

	if raw, ok, err := c.Cache.Get(ctx, ports.CacheKindIsochrone, key); err != nil {
		log.Printf("isochrone cache read failed: %v", err)
	} else if ok {
		var area orb.MultiPolygon
		if err := json.Unmarshal(raw, &area); err == nil {
			return area, nil
		}
		log.Printf("isochrone cache entry %q unreadable, refetching", key)
	}

	area, err := c.Next.Isochrone(ctx, origin, minutes)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(area); err == nil {
		if err := c.Cache.Put(ctx, ports.CacheKindIsochrone, key, raw); err != nil {
			log.Printf("isochrone cache write failed: %v", err)
		}
	}

	return area, nil
}
