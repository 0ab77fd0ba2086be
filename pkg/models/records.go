package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// Records is an insertion-ordered mapping of identity key to raw record,
// the result of one source fetch. The first record added under a key wins.
//
// Its JSON form is an object whose key order is kept on both encode and
// decode, so a cached result replays in the order it was fetched.
type Records[R any] struct {
	keys  []string
	byKey map[string]R
}

// NewRecords returns an empty Records with room for n entries.
func NewRecords[R any](n int) *Records[R] {
	return &Records[R]{
		keys:  make([]string, 0, n),
		byKey: make(map[string]R, n),
	}
}

// Add stores rec under key unless key is already present.
// It reports whether rec was stored.
func (r *Records[R]) Add(key string, rec R) bool {
	if r.byKey == nil {
		r.byKey = make(map[string]R)
	}
	if _, ok := r.byKey[key]; ok {
		return false
	}
	r.keys = append(r.keys, key)
	r.byKey[key] = rec
	return true
}

func (r *Records[R]) Get(key string) (R, bool) {
	rec, ok := r.byKey[key]
	return rec, ok
}

func (r *Records[R]) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

func (r *Records[R]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns a copy of the keys in insertion order.
func (r *Records[R]) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All iterates over key/record pairs in insertion order.
func (r *Records[R]) All() iter.Seq2[string, R] {
	return func(yield func(string, R) bool) {
		if r == nil {
			return
		}
		for _, k := range r.keys {
			if !yield(k, r.byKey[k]) {
				return
			}
		}
	}
}

func (r *Records[R]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		vb, err := json.Marshal(r.byKey[k])
		if err != nil {
			return nil, fmt.Errorf("marshal record %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Records[R]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read records: %w", err)
	}
	if tok == nil {
		// JSON null decodes to an empty set.
		*r = Records[R]{byKey: map[string]R{}}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("records: expected JSON object")
	}

	out := Records[R]{byKey: make(map[string]R)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read record key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("records: unexpected key token %v", tok)
		}
		var rec R
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("decode record %q: %w", key, err)
		}
		out.Add(key, rec)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read records end: %w", err)
	}

	*r = out
	return nil
}
