// Package mirror serves recorded directory data over the same endpoints
// the live A4M and AANP directories expose, so a run can be replayed
// without network access.
package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"contacthub/pkg/models"
)

// Fixture is the data set a mirror serves.
type Fixture struct {
	A4M  []A4MListing       `json:"a4m"`
	AANP []AANPPractitioner `json:"aanp"`
}

// A4MListing carries both the index entry and the detail body of one
// A4M listing.
type A4MListing struct {
	ID        string  `json:"id"`
	SortAlpha string  `json:"sortAlpha"`
	Degrees   *string `json:"degrees"`
	Phone     *string `json:"phone"`
	State     *string `json:"state"`
	Address1  *string `json:"address1"`
	City      *string `json:"city"`
	Zip       *string `json:"zip"`
	Country   *string `json:"country"`
	URL       *string `json:"url"`
}

// AANPPractitioner is one finder result. Without coordinates it is
// returned for every search.
type AANPPractitioner struct {
	FirstName  string   `json:"ContactDataIndividualFirstName"`
	LastName   string   `json:"ContactDataIndividualLastName"`
	Phone      *string  `json:"Phone,omitempty"`
	State      *string  `json:"AddressState,omitempty"`
	Company    *string  `json:"CompanyName,omitempty"`
	Street1    *string  `json:"AddressStreet1,omitempty"`
	City       *string  `json:"AddressCity,omitempty"`
	PostalCode *string  `json:"AddressPostalCode,omitempty"`
	Website    *string  `json:"Website,omitempty"`
	Latitude   *float64 `json:"Latitude,omitempty"`
	Longitude  *float64 `json:"Longitude,omitempty"`
}

func LoadFixture(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("fixture %s invalid JSON: %w", path, err)
	}
	return &f, nil
}

func (f *Fixture) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// FromRecords builds a fixture from cached source results. Either
// argument may be nil. Listing ids are assigned in record order and
// AANP practitioners get no coordinates.
func FromRecords(a4m *models.Records[models.A4MRecord], aanp *models.Records[models.AANPRecord]) *Fixture {
	f := &Fixture{
		A4M:  make([]A4MListing, 0, a4m.Len()),
		AANP: make([]AANPPractitioner, 0, aanp.Len()),
	}

	i := 0
	for name, rec := range a4m.All() {
		i++
		url := rec.URL
		f.A4M = append(f.A4M, A4MListing{
			ID:        strconv.Itoa(i),
			SortAlpha: name,
			Degrees:   rec.Degrees,
			Phone:     rec.Phone,
			State:     rec.State,
			Address1:  rec.Address1,
			City:      rec.City,
			Zip:       rec.Zip,
			Country:   rec.Country,
			URL:       &url,
		})
	}

	for name, rec := range aanp.All() {
		first, last, _ := strings.Cut(name, " ")
		p := AANPPractitioner{
			FirstName:  first,
			LastName:   last,
			Phone:      rec.Phone,
			State:      rec.State,
			Company:    rec.Company,
			Street1:    rec.Street1,
			City:       rec.City,
			PostalCode: rec.PostalCode,
		}
		if rec.URL != "" {
			website := rec.URL
			p.Website = &website
		}
		f.AANP = append(f.AANP, p)
	}
	return f
}
