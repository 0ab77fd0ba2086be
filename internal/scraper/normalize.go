package scraper

import "contacthub/pkg/models"

// Normalize maps raw records to contacts tagged with source, in record
// order. Names are normalized and the first record for a normalized
// name wins. Absent fields stay absent.
func Normalize[R models.RawRecord](source string, recs *models.Records[R]) []models.Contact {
	out := make([]models.Contact, 0, recs.Len())
	seen := make(map[string]struct{}, recs.Len())

	for rawName, rec := range recs.All() {
		name := models.NormalizeName(rawName)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, rec.ToContact(name, source))
	}
	return out
}
