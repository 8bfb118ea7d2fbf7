package weather

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const wttrURL = "https://wttr.in"

// Wttr scrapes wttr.in's HTML page for a city. It needs no API key, which
// makes it a usable fallback when the OpenWeatherMap quota runs out.
type Wttr struct {
	client  *http.Client
	baseURL string
}

func NewWttr() *Wttr {
	return &Wttr{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: wttrURL,
	}
}

// NewWttrWithBaseURL points the scraper at a local server in tests.
func NewWttrWithBaseURL(baseURL string) *Wttr {
	w := NewWttr()
	w.baseURL = baseURL
	return w
}

func (w *Wttr) Current(ctx context.Context, city string) (*Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/"+city, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	res, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNotFound, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	// The page title carries the resolved location, the first <pre> block
	// the rendered report whose second line reads like "Clear +21(23) °C".
	title := strings.TrimSuffix(strings.TrimSpace(doc.Find("title").Text()), " - wttr.in")
	report := doc.Find("pre").First().Text()

	temp, desc, ok := parseWttrReport(report)
	if !ok || title == "" {
		return nil, ErrNotFound
	}
	return &Reading{City: title, Temp: temp, Description: desc}, nil
}

// parseWttrReport pulls the condition words and the signed temperature out
// of the fixed-width report. The condition ("Sunny", "Light rain") is the
// last run of purely alphabetic fields seen before the temperature line;
// everything else on those lines is ASCII art.
func parseWttrReport(report string) (temp float64, desc string, ok bool) {
	for _, line := range strings.Split(report, "\n") {
		var words []string
		for _, f := range strings.Fields(line) {
			if isAlpha(f) {
				words = append(words, f)
				continue
			}
			// "+21(23)" or "-3" followed by the °C field
			v := strings.TrimSuffix(f, "°C")
			if j := strings.IndexByte(v, '('); j >= 0 {
				v = v[:j]
			}
			n, err := strconv.ParseFloat(strings.TrimPrefix(v, "+"), 64)
			if err == nil && strings.Contains(line, "°C") {
				if len(words) > 0 {
					desc = strings.Join(words, " ")
				}
				return n, desc, true
			}
		}
		if len(words) > 0 {
			desc = strings.Join(words, " ")
		}
	}
	return 0, "", false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}
