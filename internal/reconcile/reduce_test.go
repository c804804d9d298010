package reconcile

import (
	"context"
	"errors"
	"testing"
)

// scriptedSelector answers prompts from a fixed list and records every
// prompt it was shown. Running out of answers cancels.
type scriptedSelector struct {
	answers []int
	prompts []string
	options [][]Option
}

func (s *scriptedSelector) SelectOne(_ context.Context, title string, options []Option) (int, error) {
	s.prompts = append(s.prompts, title)
	s.options = append(s.options, options)
	if len(s.answers) == 0 {
		return 0, ErrCancelled
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

type vote struct {
	source string
	value  string
}

func (v vote) SourceName() string { return v.source }

func voteValue(v vote) (string, string) { return v.value, v.value }

func TestReduceSingleGroupNeverPrompts(t *testing.T) {
	sel := &scriptedSelector{}
	s := NewSession(sel, nil, nil)
	got, err := Reduce(context.Background(), s, "Select title", []vote{{"a", "X"}, {"b", "X"}, {"c", ""}}, voteValue)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got != "X" {
		t.Errorf("got %q, want X", got)
	}
	if len(sel.prompts) != 0 {
		t.Errorf("selector called %d times, want 0", len(sel.prompts))
	}
}

func TestReduceNoDataNeverPrompts(t *testing.T) {
	sel := &scriptedSelector{}
	s := NewSession(sel, nil, nil)
	_, err := Reduce(context.Background(), s, "Select barcode", []vote{{"a", ""}, {"b", ""}}, voteValue)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("ErrNoData does not wrap ErrNoResult")
	}
	if len(sel.prompts) != 0 {
		t.Errorf("selector called %d times, want 0", len(sel.prompts))
	}
}

func TestReduceOrdersBySupport(t *testing.T) {
	sel := &scriptedSelector{answers: []int{0}}
	s := NewSession(sel, nil, nil)
	candidates := []vote{{"deezer", "C,D"}, {"discogs", "A,B"}, {"musicbrainz", "A,B"}, {"tidal", "E"}}
	got, err := Reduce(context.Background(), s, "Select track titles", candidates, voteValue)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got != "A,B" {
		t.Errorf("got %q, want A,B", got)
	}
	opts := sel.options[0]
	want := []Option{
		{Label: "A,B (2)", Detail: "discogs, musicbrainz"},
		{Label: "C,D (1)", Detail: "deezer"},
		{Label: "E (1)", Detail: "tidal"},
	}
	if len(opts) != len(want) {
		t.Fatalf("got %d options, want %d", len(opts), len(want))
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Errorf("option %d = %+v, want %+v", i, opts[i], want[i])
		}
	}
}

func TestReduceReusesDecisionForSameAlternatives(t *testing.T) {
	sel := &scriptedSelector{answers: []int{0}}
	s := NewSession(sel, nil, nil)
	ctx := context.Background()

	first := []vote{{"a", "A,B"}, {"b", "A,B"}, {"c", "C,D"}}
	got, err := Reduce(ctx, s, "Select track titles", first, voteValue)
	if err != nil {
		t.Fatalf("first Reduce: %v", err)
	}
	if got != "A,B" {
		t.Fatalf("first got %q, want A,B", got)
	}

	// Same split under another attribute, with support reversed.
	second := []vote{{"a", "C,D"}, {"b", "C,D"}, {"c", "A,B"}}
	got, err = Reduce(ctx, s, "Select artist for track 2", second, voteValue)
	if err != nil {
		t.Fatalf("second Reduce: %v", err)
	}
	if got != "A,B" {
		t.Errorf("second got %q, want reused A,B", got)
	}
	if len(sel.prompts) != 1 {
		t.Errorf("selector called %d times, want 1", len(sel.prompts))
	}
	if s.Memo().Len() != 1 {
		t.Errorf("memo holds %d decisions, want 1", s.Memo().Len())
	}
}

func TestReduceNewSessionForgets(t *testing.T) {
	sel := &scriptedSelector{answers: []int{1, 0}}
	ctx := context.Background()
	candidates := []vote{{"a", "A"}, {"b", "B"}}

	if _, err := Reduce(ctx, NewSession(sel, nil, nil), "Select title", candidates, voteValue); err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	got, err := Reduce(ctx, NewSession(sel, nil, nil), "Select title", candidates, voteValue)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got != "A" {
		t.Errorf("got %q, want A from a fresh prompt", got)
	}
	if len(sel.prompts) != 2 {
		t.Errorf("selector called %d times, want 2", len(sel.prompts))
	}
}

func TestReduceCancel(t *testing.T) {
	sel := &scriptedSelector{}
	s := NewSession(sel, nil, nil)
	_, err := Reduce(context.Background(), s, "Select title", []vote{{"a", "A"}, {"b", "B"}}, voteValue)
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, ErrNoResult) {
		t.Fatalf("err = %v, want ErrCancelled wrapping ErrNoResult", err)
	}
	if s.Memo().Len() != 0 {
		t.Errorf("cancelled prompt was memoized")
	}
}

func TestReduceRejectsOutOfRangeChoice(t *testing.T) {
	sel := &scriptedSelector{answers: []int{5}}
	s := NewSession(sel, nil, nil)
	_, err := Reduce(context.Background(), s, "Select title", []vote{{"a", "A"}, {"b", "B"}}, voteValue)
	if err == nil {
		t.Fatal("expected error for out of range choice")
	}
	if errors.Is(err, ErrNoResult) {
		t.Errorf("out of range choice reported as no result: %v", err)
	}
}

func TestMemoSignatureIsOrderIndependent(t *testing.T) {
	m := NewMemo()
	m.Record([]string{"b", "a", "c"}, "c")
	got, ok := m.Lookup([]string{"c", "b", "a"})
	if !ok || got != "c" {
		t.Errorf("Lookup = %q, %v; want c, true", got, ok)
	}
	if _, ok := m.Lookup([]string{"a", "b"}); ok {
		t.Error("subset of alternatives matched")
	}
}
