package edsm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"starroute-service/internal/domain"
	"starroute-service/internal/platform/obs"
	"starroute-service/internal/ports"
)

// EDSM answers an unknown system with an empty JSON document instead of a
// 404, and may return a known system without coordinate data.
type systemResponse struct {
	Name   string `json:"name"`
	Coords *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"coords"`
}

// Lookup resolves a system name via the EDSM api-v1/system endpoint.
//
// Returns ports.ErrSystemNotFound when EDSM does not know the system or has
// no coordinates for it, and ports.ErrLookupFailed on transport failure or
// a malformed response.
func (c *Client) Lookup(ctx context.Context, name string) (_ domain.SystemPoint, err error) {
	defer obs.Time(ctx, "edsm.Lookup")(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SystemPoint{}, errors.New("edsm lookup: system name must be non-empty")
	}

	endpoint := c.baseURL + "/api-v1/system"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("systemName", name)
		q.Set("showCoordinates", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.SystemPoint{}, fmt.Errorf("edsm lookup %q: %v: %w", name, err, ports.ErrLookupFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.SystemPoint{}, fmt.Errorf("edsm lookup %q: read response: %v: %w", name, err, ports.ErrLookupFailed)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("[]")) || bytes.Equal(trimmed, []byte("{}")) {
		return domain.SystemPoint{}, fmt.Errorf("edsm lookup %q: %w", name, ports.ErrSystemNotFound)
	}

	var decoded systemResponse
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return domain.SystemPoint{}, fmt.Errorf("edsm lookup %q: decode response: %v: %w", name, err, ports.ErrLookupFailed)
	}

	if decoded.Name == "" || decoded.Coords == nil {
		return domain.SystemPoint{}, fmt.Errorf("edsm lookup %q: no coordinates: %w", name, ports.ErrSystemNotFound)
	}

	return domain.SystemPoint{
		Name: decoded.Name,
		Coords: domain.Coordinates{
			X: decoded.Coords.X,
			Y: decoded.Coords.Y,
			Z: decoded.Coords.Z,
		},
	}, nil
}
