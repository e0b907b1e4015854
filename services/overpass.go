package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"courtfinder/metrics"
	"courtfinder/models"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// ErrCourtNotFound: Overpass không trả về way nào với id này
var ErrCourtNotFound = errors.New("court not found in overpass")

// OverpassResponse định nghĩa cấu trúc phản hồi từ Overpass API
type OverpassResponse struct {
	Elements []struct {
		Type   string `json:"type"`
		ID     int64  `json:"id"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// ParseOverpassCourt lấy sân đầu tiên trong phản hồi Overpass
func ParseOverpassCourt(body io.Reader) (*models.Court, error) {
	var resp OverpassResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Elements) == 0 {
		return nil, ErrCourtNotFound
	}

	el := resp.Elements[0]
	tags := el.Tags
	court := &models.Court{
		ID:           el.ID,
		Name:         tags["name"],
		Lat:          el.Lat,
		Lon:          el.Lon,
		Hoops:        tags["hoops"],
		Surface:      tags["surface"],
		Amenity:      tags["amenity"],
		Website:      tags["website"],
		Leisure:      tags["leisure"],
		OpeningHours: tags["opening_hours"],
		Phone:        tags["phone"],
		Address: models.Address{
			HouseNumber: tags["addr:housenumber"],
			Street:      tags["addr:street"],
			City:        tags["addr:city"],
			State:       tags["addr:state"],
			Postcode:    tags["addr:postcode"],
			Country:     tags["addr:country"],
		},
	}
	if el.Center != nil {
		court.Lat, court.Lon = el.Center.Lat, el.Center.Lon
	}
	return court, nil
}

// OverpassClient tra cứu sân trên OpenStreetMap qua Overpass, có circuit breaker
type OverpassClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewOverpassClient(baseURL string, httpClient *http.Client, m *metrics.Metrics) *OverpassClient {
	if baseURL == "" {
		baseURL = DefaultOverpassURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OverpassClient{
		baseURL: baseURL,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "overpass",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrCourtNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				m.ObserveBreaker(name, to.String())
			},
		}),
	}
}

func (c *OverpassClient) State() gobreaker.State {
	return c.breaker.State()
}

// FetchCourt gửi truy vấn `[out:json];way(id);out center tags;`
func (c *OverpassClient) FetchCourt(ctx context.Context, id int64) (*models.Court, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		query := "[out:json];way(" + strconv.FormatInt(id, 10) + ");out center tags;"
		apiURL := c.baseURL + "?data=" + url.QueryEscape(query)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
		}
		return ParseOverpassCourt(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Court), nil
}
