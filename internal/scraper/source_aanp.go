package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contacthub/internal/sweep"
	"contacthub/pkg/logger"
	"contacthub/pkg/models"
)

const aanpSearchPath = "/WebServices/FinderService__c.asmx/Search"

// AANPSource sweeps the AANP practitioner finder, which only answers
// "who is within Radius of this point", across a grid of windows.
type AANPSource struct {
	BaseURL string
	Grid    sweep.Grid
	Client  *Client
	Log     *logger.Logger
}

func NewAANPSource(baseURL string, client *Client, log *logger.Logger) *AANPSource {
	if log == nil {
		log = logger.NewNop()
	}
	return &AANPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Grid:    sweep.Continental(),
		Client:  client,
		Log:     log.With("source", "aanp"),
	}
}

func (s *AANPSource) Name() string { return "aanp" }

type aanpCenter struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

type aanpQuery struct {
	Center aanpCenter `json:"Center"`
	Radius float64    `json:"Radius"`
}

type aanpSearchRequest struct {
	Query aanpQuery `json:"query"`
}

// aanpSearchResponse wraps the result array as a JSON-encoded string.
type aanpSearchResponse struct {
	D string `json:"d"`
}

type aanpPractitioner struct {
	FirstName  string  `json:"ContactDataIndividualFirstName"`
	LastName   string  `json:"ContactDataIndividualLastName"`
	Phone      *string `json:"Phone"`
	State      *string `json:"AddressState"`
	Company    *string `json:"CompanyName"`
	Street1    *string `json:"AddressStreet1"`
	City       *string `json:"AddressCity"`
	PostalCode *string `json:"AddressPostalCode"`
	Website    *string `json:"Website"`
}

// FetchAll queries every grid window in order. The first window to
// return a practitioner decides that practitioner's record. Failed
// windows are skipped; the fetch fails only if every window failed.
func (s *AANPSource) FetchAll(ctx context.Context) (*models.Records[models.AANPRecord], error) {
	total := s.Grid.Len()
	s.Log.Info("scraping doctor information", "windows", total)

	recs := models.NewRecords[models.AANPRecord](0)
	var done, failed int
	var lastErr error
	var lastLon float64

	for w := range s.Grid.Windows() {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Source: s.Name(), Op: "sweep", Err: err}
		}
		if done > 0 && w.Lon != lastLon {
			s.Log.Debug("sweep progress", "lon", lastLon, "done", done, "total", total, "count", recs.Len())
		}
		lastLon = w.Lon
		done++

		found, err := s.search(ctx, w)
		if err != nil {
			failed++
			lastErr = err
			s.Log.Warn("window failed",
				"window", w.String(),
				"geohash", w.Geohash(),
				"status", statusCode(err),
				"error", err,
			)
			continue
		}

		for _, p := range found {
			name := models.TitleCase(p.FirstName + " " + p.LastName)
			if name == "" || recs.Has(name) {
				continue
			}
			rec := models.AANPRecord{
				Phone:      p.Phone,
				State:      p.State,
				Company:    p.Company,
				Street1:    p.Street1,
				City:       p.City,
				PostalCode: p.PostalCode,
			}
			if p.Website != nil {
				rec.URL = *p.Website
			}
			recs.Add(name, rec)
		}
	}

	if total > 0 && failed == total {
		return nil, &FetchError{
			Source: s.Name(),
			Op:     "sweep",
			Err:    fmt.Errorf("%w: all %d windows failed: %v", ErrSourceUnavailable, total, lastErr),
		}
	}

	s.Log.Info("scraped contacts", "count", recs.Len(), "windows", total, "failed_windows", failed)
	return recs, nil
}

func (s *AANPSource) search(ctx context.Context, w sweep.Window) ([]aanpPractitioner, error) {
	body := aanpSearchRequest{Query: aanpQuery{
		Center: aanpCenter{Latitude: w.Lat, Longitude: w.Lon},
		Radius: w.Radius,
	}}

	var resp aanpSearchResponse
	if err := s.Client.PostJSON(ctx, s.BaseURL+aanpSearchPath, body, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.D) == "" {
		return nil, nil
	}

	var found []aanpPractitioner
	if err := json.Unmarshal([]byte(resp.D), &found); err != nil {
		return nil, fmt.Errorf("decode search payload: %w", err)
	}
	return found, nil
}
