package release

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownLink marks a credited name whose source gave no artist link.
const UnknownLink = "unknown"

// CreditEntry is one element of an artist credit. A literal holds either a
// join phrase or a bare name, depending on where it sits in the credit. A
// pair holds a name together with a link: an external artist URL before
// resolution, a registry identifier after it.
type CreditEntry struct {
	Text string
	Link string
	Pair bool
}

// Literal builds a literal credit entry.
func Literal(text string) CreditEntry { return CreditEntry{Text: text} }

// Named builds a (name, link) credit entry.
func Named(name, link string) CreditEntry { return CreditEntry{Text: name, Link: link, Pair: true} }

// MarshalJSON encodes literals as strings and pairs as {"name","link"} objects.
func (e CreditEntry) MarshalJSON() ([]byte, error) {
	if !e.Pair {
		return MarshalPlain(e.Text)
	}
	return MarshalPlain(struct {
		Name string `json:"name"`
		Link string `json:"link"`
	}{e.Text, e.Link})
}

// UnmarshalJSON accepts the forms produced by MarshalJSON.
func (e *CreditEntry) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*e = Literal(text)
		return nil
	}
	var pair struct {
		Name string `json:"name"`
		Link string `json:"link"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("credit entry must be a string or a name/link object: %w", err)
	}
	*e = Named(pair.Name, pair.Link)
	return nil
}

// Credit is an artist credit as a sequence of entries.
type Credit []CreditEntry

// PlainCredit wraps an unstructured credit string.
func PlainCredit(s string) Credit {
	if s == "" {
		return nil
	}
	return Credit{Literal(s)}
}

// UnmarshalJSON accepts either a plain string or a list of entries.
func (c *Credit) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = PlainCredit(text)
		return nil
	}
	var entries []CreditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*c = entries
	return nil
}

// Names returns the credited names, skipping join phrases. Literals are
// classified with the same alternation String uses.
func (c Credit) Names() []string {
	var names []string
	expectName := true
	for _, e := range c {
		if e.Pair {
			names = append(names, e.Text)
			expectName = false
			continue
		}
		if expectName {
			names = append(names, e.Text)
		}
		expectName = !expectName
	}
	return names
}

// String renders the credit as plain text, inserting ", " between names
// that have no join phrase between them.
func (c Credit) String() string {
	var b strings.Builder
	expectName := true
	for _, e := range c {
		if e.Pair {
			if !expectName {
				b.WriteString(", ")
			}
			b.WriteString(e.Text)
			expectName = false
			continue
		}
		b.WriteString(e.Text)
		expectName = !expectName
	}
	return b.String()
}

// Clone returns a copy that can be appended to without touching c.
func (c Credit) Clone() Credit {
	if c == nil {
		return nil
	}
	out := make(Credit, len(c))
	copy(out, c)
	return out
}

// MarshalPlain is json.Marshal without HTML escaping, so join phrases such
// as " & " stay readable. Writers must also disable escaping on their
// encoder, since encoding/json escapes the output of MarshalJSON methods.
func MarshalPlain(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
