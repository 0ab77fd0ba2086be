package models

import "strings"

// RawRecord is implemented by each source-native record shape. A record
// knows how to project itself onto the canonical Contact; name and source
// come from the caller.
type RawRecord interface {
	ToContact(name, source string) Contact
}

// A4MRecord is one A4M directory listing, assembled from the detail
// endpoint. Field names follow the A4M API.
type A4MRecord struct {
	Degrees  *string `json:"degrees,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	State    *string `json:"state,omitempty"`
	Address1 *string `json:"address1,omitempty"`
	City     *string `json:"city,omitempty"`
	Zip      *string `json:"zip,omitempty"`
	Country  *string `json:"country,omitempty"`
	URL      string  `json:"url"`
}

func (r A4MRecord) ToContact(name, source string) Contact {
	return Contact{
		Name:    name,
		Phone:   r.Phone,
		State:   r.State,
		Degrees: r.Degrees,
		Address: ComposeAddress(r.Address1, r.City, r.State, r.Zip),
		URL:     r.URL,
		Source:  source,
	}
}

// AANPRecord is one AANP finder result. Field names follow the
// AANP search payload (Address* columns flattened to snake case).
type AANPRecord struct {
	Phone      *string `json:"phone,omitempty"`
	State      *string `json:"state,omitempty"`
	Company    *string `json:"company,omitempty"`
	Street1    *string `json:"address_street1,omitempty"`
	City       *string `json:"address_city,omitempty"`
	PostalCode *string `json:"address_postal_code,omitempty"`
	URL        string  `json:"url"`
}

func (r AANPRecord) ToContact(name, source string) Contact {
	var company *string
	if r.Company != nil {
		c := TitleCase(*r.Company)
		company = &c
	}

	var zip *string
	if r.PostalCode != nil {
		z := shortZip(*r.PostalCode)
		zip = &z
	}

	return Contact{
		Name:    name,
		Phone:   r.Phone,
		State:   r.State,
		Company: company,
		Address: ComposeAddress(r.Street1, r.City, r.State, zip),
		URL:     r.URL,
		Source:  source,
	}
}

// ComposeAddress joins the non-blank parts into one line
// ("street, city, state, zip"). It returns nil when every part is
// missing or blank, so a partial address never renders as "".
func ComposeAddress(parts ...*string) *string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		if s := strings.TrimSpace(*p); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	addr := strings.Join(kept, ", ")
	return &addr
}

// shortZip keeps the five-digit part of a ZIP+4 code.
func shortZip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
