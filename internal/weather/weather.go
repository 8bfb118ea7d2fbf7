// Package weather resolves a city name to a current environmental reading.
// The bot only needs the canonical city name, the temperature and a short
// description; everything else the APIs return is dropped.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound covers both "no such city" and transport failures: the caller
// cannot tell them apart and treats both as a missing reading.
var ErrNotFound = errors.New("weather: not found")

// Reading is one current observation for a city.
type Reading struct {
	City        string  // canonical name as the provider reports it
	Temp        float64 // °C
	Description string
}

// Provider resolves a city to its current reading.
type Provider interface {
	Current(ctx context.Context, city string) (*Reading, error)
}

const openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeather queries the OpenWeatherMap current-weather endpoint.
type OpenWeather struct {
	client *resty.Client
	apiKey string
}

func NewOpenWeather(apiKey string) *OpenWeather {
	client := resty.New().
		SetBaseURL(openWeatherURL).
		SetTimeout(10 * time.Second)
	return &OpenWeather{client: client, apiKey: apiKey}
}

// NewOpenWeatherWithBaseURL is used by tests to point at a local server.
func NewOpenWeatherWithBaseURL(apiKey, baseURL string) *OpenWeather {
	ow := NewOpenWeather(apiKey)
	ow.client.SetBaseURL(baseURL)
	return ow
}

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (o *OpenWeather) Current(ctx context.Context, city string) (*Reading, error) {
	var body owmResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": o.apiKey,
			"units": "metric",
			"lang":  "ru",
		}).
		SetResult(&body).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode())
	}

	r := &Reading{City: body.Name, Temp: body.Main.Temp}
	if len(body.Weather) > 0 {
		r.Description = body.Weather[0].Description
	}
	return r, nil
}

// Fallback tries providers in order and returns the first reading.
type Fallback []Provider

func (f Fallback) Current(ctx context.Context, city string) (*Reading, error) {
	for _, p := range f {
		r, err := p.Current(ctx, city)
		if err == nil {
			return r, nil
		}
	}
	return nil, ErrNotFound
}
