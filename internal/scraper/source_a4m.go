package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"contacthub/pkg/logger"
	"contacthub/pkg/models"
)

const a4mCountry = "United States"

// A4MQuery holds the parameters of the A4M directory index search.
type A4MQuery struct {
	ListingTypes []string
	Lat, Lng     float64
	Radius       int
}

// DefaultA4MQuery searches doctor listings in a radius wide enough to
// cover the whole directory from the middle of the US.
func DefaultA4MQuery() A4MQuery {
	return A4MQuery{
		ListingTypes: []string{
			"fd6334c22b25d2dbd8b4f0ab910395fd",
			"d8eab40b3150f7b3f26af1e68513c924",
		},
		Lat:    35,
		Lng:    -100,
		Radius: 24000,
	}
}

func (q A4MQuery) values() url.Values {
	v := url.Values{}
	for _, t := range q.ListingTypes {
		v.Add("listing_type[]", t)
	}
	v.Set("keyword", "")
	v.Set("location", "")
	v.Set("radius", strconv.Itoa(q.Radius))
	v.Set("doctor", "yes")
	v.Set("alphaCol", "fname|lname")
	v.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	v.Set("lng", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	return v
}

// A4MSource fetches the A4M directory in two phases: one index search
// listing every doctor, then one detail lookup per listing.
type A4MSource struct {
	BaseURL string
	Query   A4MQuery
	Client  *Client
	Log     *logger.Logger
}

func NewA4MSource(baseURL string, client *Client, log *logger.Logger) *A4MSource {
	if log == nil {
		log = logger.NewNop()
	}
	return &A4MSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Query:   DefaultA4MQuery(),
		Client:  client,
		Log:     log.With("source", "a4m"),
	}
}

func (s *A4MSource) Name() string { return "a4m" }

// listingID accepts both numeric and string ids.
type listingID string

func (id *listingID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = listingID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("listing id: %w", err)
	}
	*id = listingID(n.String())
	return nil
}

type a4mListing struct {
	ID        listingID `json:"id"`
	SortAlpha string    `json:"sortAlpha"`
}

type a4mIndexResponse struct {
	Message []a4mListing `json:"message"`
}

type a4mDetail struct {
	Degrees  *string `json:"degrees"`
	Phone    *string `json:"phone"`
	State    *string `json:"state"`
	Address1 *string `json:"address1"`
	City     *string `json:"city"`
	Zip      *string `json:"zip"`
	Country  *string `json:"country"`
	URL      *string `json:"url"`
}

type a4mDetailResponse struct {
	Message []a4mDetail `json:"message"`
}

// FetchAll returns US listings keyed by their directory sort name.
// A failed detail lookup drops that listing only; a failed index
// search fails the whole fetch.
func (s *A4MSource) FetchAll(ctx context.Context) (*models.Records[models.A4MRecord], error) {
	s.Log.Info("scraping doctor information")

	var index a4mIndexResponse
	indexURL := s.BaseURL + "/listing-search/coordinates?" + s.Query.values().Encode()
	if err := s.Client.GetJSON(ctx, indexURL, &index); err != nil {
		return nil, &FetchError{Source: s.Name(), Op: "index", Err: err}
	}

	recs := models.NewRecords[models.A4MRecord](len(index.Message))
	var failed, foreign int

	for _, listing := range index.Message {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Source: s.Name(), Op: "detail", Err: err}
		}

		name := strings.TrimSpace(listing.SortAlpha)
		if name == "" || listing.ID == "" {
			continue
		}
		if recs.Has(name) {
			continue
		}

		detail, err := s.detail(ctx, listing.ID)
		if err != nil {
			failed++
			s.Log.Warn("detail lookup failed", "id", string(listing.ID), "status", statusCode(err), "error", err)
			continue
		}
		if detail.Country == nil || *detail.Country != a4mCountry {
			foreign++
			continue
		}

		rec := models.A4MRecord{
			Degrees:  detail.Degrees,
			Phone:    detail.Phone,
			State:    detail.State,
			Address1: detail.Address1,
			City:     detail.City,
			Zip:      detail.Zip,
			Country:  detail.Country,
		}
		if detail.URL != nil {
			rec.URL = *detail.URL
		}
		recs.Add(name, rec)
	}

	s.Log.Info("scraped contacts",
		"count", recs.Len(),
		"listings", len(index.Message),
		"skipped_foreign", foreign,
		"failed_details", failed,
	)
	return recs, nil
}

func (s *A4MSource) detail(ctx context.Context, id listingID) (*a4mDetail, error) {
	q := url.Values{}
	q.Set("id[]", string(id))

	var resp a4mDetailResponse
	if err := s.Client.GetJSON(ctx, s.BaseURL+"/listing-search/listings?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Message) == 0 {
		return nil, fmt.Errorf("listing %s: empty detail response", id)
	}
	return &resp.Message[0], nil
}
