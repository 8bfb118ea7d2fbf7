package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWeatherCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Moscow", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Moscow",
			"main": {"temp": 21.5, "feels_like": 20.1, "humidity": 40},
			"weather": [{"description": "ясно"}]
		}`))
	}))
	defer srv.Close()

	ow := NewOpenWeatherWithBaseURL("test-key", srv.URL)
	r, err := ow.Current(context.Background(), "Moscow")
	require.NoError(t, err)
	assert.Equal(t, "Moscow", r.City)
	assert.Equal(t, 21.5, r.Temp)
	assert.Equal(t, "ясно", r.Description)
}

func TestOpenWeatherUnknownCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	ow := NewOpenWeatherWithBaseURL("test-key", srv.URL)
	_, err := ow.Current(context.Background(), "Nowhere")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestOpenWeatherServerErrorIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ow := NewOpenWeatherWithBaseURL("test-key", srv.URL)
	_, err := ow.Current(context.Background(), "Moscow")
	assert.True(t, errors.Is(err, ErrNotFound))
}

const wttrPage = `<html><head><title>Saint Petersburg - wttr.in</title></head>
<body><pre>Weather report: Saint Petersburg

      \   /     Sunny
       .-.      +23(25) °C
    ― (   ) ―   ↑ 11 km/h
       ` + "`-’" + `       10 km
      /   \     0.0 mm
</pre></body></html>`

func TestWttrCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Saint+Petersburg", r.URL.Path)
		_, _ = w.Write([]byte(wttrPage))
	}))
	defer srv.Close()

	wt := NewWttrWithBaseURL(srv.URL)
	r, err := wt.Current(context.Background(), "Saint+Petersburg")
	require.NoError(t, err)
	assert.Equal(t, "Saint Petersburg", r.City)
	assert.Equal(t, 23.0, r.Temp)
	assert.Equal(t, "Sunny", r.Description)
}

func TestParseWttrReportNegative(t *testing.T) {
	temp, desc, ok := parseWttrReport("Weather report: Yakutsk\n\n  Light snow\n  -41 °C\n")
	require.True(t, ok)
	assert.Equal(t, -41.0, temp)
	assert.Equal(t, "Light snow", desc)
}

func TestParseWttrReportGarbage(t *testing.T) {
	_, _, ok := parseWttrReport("nothing useful here")
	assert.False(t, ok)
}

type stubProvider struct {
	r   *Reading
	err error
}

func (s stubProvider) Current(ctx context.Context, city string) (*Reading, error) {
	return s.r, s.err
}

func TestFallbackChain(t *testing.T) {
	ctx := context.Background()

	primary := stubProvider{err: ErrNotFound}
	secondary := stubProvider{r: &Reading{City: "Moscow", Temp: 18}}

	r, err := Fallback{primary, secondary}.Current(ctx, "Moscow")
	require.NoError(t, err)
	assert.Equal(t, 18.0, r.Temp)

	_, err = Fallback{primary, stubProvider{err: ErrNotFound}}.Current(ctx, "Moscow")
	assert.True(t, errors.Is(err, ErrNotFound))
}
