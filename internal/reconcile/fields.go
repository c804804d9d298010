package reconcile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sydlexius/mbmerge/internal/release"
)

// Fields is the flat field-path map handed to the submission transport. Keys
// keep their insertion order so that repeated assembly is byte-identical.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields creates an empty field map.
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Set stores a value. Setting an existing key overwrites the value in place.
func (f *Fields) Set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Len returns the number of fields.
func (f *Fields) Len() int { return len(f.keys) }

// Keys returns the field paths in insertion order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Map returns an unordered copy of the fields.
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the fields as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := release.MarshalPlain(k)
		if err != nil {
			return nil, err
		}
		value, err := release.MarshalPlain(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// setCredit writes a resolved credit under prefix. The name index advances
// after each join phrase, so a name and the phrase following it share an
// index.
func (f *Fields) setCredit(prefix string, credit release.Credit) {
	n := 0
	for _, e := range credit {
		start := fmt.Sprintf("%s.names.%d", prefix, n)
		if !e.Pair {
			f.Set(start+".join_phrase", e.Text)
			n++
			continue
		}
		f.Set(start+".name", e.Text)
		f.Set(start+".artist.name", e.Text)
		if e.Link != "" {
			f.Set(start+".mbid", e.Link)
		}
	}
}

// setDate writes the release event date by counting hyphens: none is a
// year alone, two is a full year-month-day date. Other shapes are dropped.
func (f *Fields) setDate(date string) {
	if date == "" {
		return
	}
	parts := strings.Split(date, "-")
	switch len(parts) {
	case 1:
		f.Set("events.0.date.year", parts[0])
	case 3:
		f.Set("events.0.date.year", parts[0])
		f.Set("events.0.date.month", parts[1])
		f.Set("events.0.date.day", parts[2])
	}
}

// setURLs writes one URL relation per album and declared link type.
func (f *Fields) setURLs(albums []*release.Album) {
	n := 0
	for _, a := range albums {
		for _, linkType := range a.URLTypes {
			f.Set(fmt.Sprintf("urls.%d.url", n), a.URL)
			f.Set(fmt.Sprintf("urls.%d.link_type", n), linkType)
			n++
		}
	}
}
