package models

// Contact is the normalized, internal form of a practitioner listing
// used by the normalizer and the CSV exporter.
//
// All external sources are mapped into this structure first,
// then we export from this representation.
//
// Optional fields are pointers: nil means the source did not supply the
// field, a pointer to "" means it supplied an empty value. The "N/A"
// marker only appears at export time.
type Contact struct {
	Name    string  `json:"name"`              // normalized (title-cased) name, unique per source
	Phone   *string `json:"phone,omitempty"`   // as provided by the source
	State   *string `json:"state,omitempty"`   // two-letter or free-form region code
	Company *string `json:"company,omitempty"` // practice / employer
	Degrees *string `json:"degrees,omitempty"` // e.g. "MD", "DO, FAARM"
	Address *string `json:"address,omitempty"` // one composed line: street, city, state, zip
	URL     string  `json:"url"`               // empty when the source has none
	Source  string  `json:"source"`            // provenance tag assigned by the caller
}
