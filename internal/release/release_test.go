package release

import (
	"encoding/json"
	"testing"
)

func TestCreditString(t *testing.T) {
	tests := []struct {
		name   string
		credit Credit
		want   string
	}{
		{"plain", PlainCredit("Main"), "Main"},
		{"pairs without join", Credit{Named("A", "u1"), Named("B", "u2")}, "A, B"},
		{"pair and join", Credit{Named("A", "u1"), Literal(" & "), Named("B", "u2")}, "A & B"},
		{"literals alternate", Credit{Literal("A"), Literal(" x "), Literal("B")}, "A x B"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.credit.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreditNames(t *testing.T) {
	c := Credit{Literal("Main"), Literal(" feat. "), Named("X", UnknownLink)}
	names := c.Names()
	if len(names) != 2 || names[0] != "Main" || names[1] != "X" {
		t.Errorf("Names() = %v, want [Main X]", names)
	}
}

func TestCreditJSON(t *testing.T) {
	in := `{"title":"T","artist":["Main"," & ",{"name":"Guest","link":"https://example.com/a"}],"tracks":[{"title":"x","artist":"Solo","length_ms":1000,"number":1}]}`
	var a Album
	if err := json.Unmarshal([]byte(in), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(a.Artist) != 3 {
		t.Fatalf("expected 3 credit entries, got %d", len(a.Artist))
	}
	if a.Artist[0].Pair || !a.Artist[2].Pair {
		t.Errorf("unexpected entry kinds: %+v", a.Artist)
	}
	if a.Artist[2].Link != "https://example.com/a" {
		t.Errorf("link = %q", a.Artist[2].Link)
	}
	if got := a.Tracks[0].Artist.String(); got != "Solo" {
		t.Errorf("track artist = %q, want Solo", got)
	}

	out, err := MarshalPlain(a.Artist)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["Main"," & ",{"name":"Guest","link":"https://example.com/a"}]`
	if string(out) != want {
		t.Errorf("marshal = %s, want %s", out, want)
	}

	// The standard encoder escapes "&", the credit must still read back.
	escaped, err := json.Marshal(a.Artist)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var back Credit
	if err := json.Unmarshal(escaped, &back); err != nil {
		t.Fatalf("unmarshal escaped: %v", err)
	}
	if back.String() != a.Artist.String() {
		t.Errorf("round trip = %q, want %q", back.String(), a.Artist.String())
	}
}

func TestFoldName(t *testing.T) {
	tests := []struct{ a, b string }{
		{"Beyoncé", "beyonce"},
		{"  MOTÖRHEAD ", "motorhead"},
		{"Sigur Rós", "sigur ros"},
	}
	for _, tt := range tests {
		if !SameName(tt.a, tt.b) {
			t.Errorf("SameName(%q, %q) = false, want true", tt.a, tt.b)
		}
	}
	if SameName("Alpha", "Beta") {
		t.Error("SameName(Alpha, Beta) = true")
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("Kid A", "kid a"); s != 1 {
		t.Errorf("identical titles scored %v", s)
	}
	if s := Similarity("OK Computer", "OK Computer (Remastered)"); s < 0.7 {
		t.Errorf("contained title scored %v, want >= 0.7", s)
	}
	if s := Similarity("Amnesiac", "Hail to the Thief"); s >= 0.7 {
		t.Errorf("unrelated titles scored %v", s)
	}
}

func TestAlbumSnippet(t *testing.T) {
	a := &Album{
		Artist:      PlainCredit("Band"),
		ReleaseDate: "2020",
		Tracks:      []*Track{{Title: "a"}, {Title: "b"}},
		Barcode:     "123",
	}
	want := "By Band, released 2020, 2 tracks, UPN 123"
	if got := a.Snippet(); got != want {
		t.Errorf("Snippet() = %q, want %q", got, want)
	}
}

func TestRegistryID(t *testing.T) {
	a := &Album{}
	if a.IsRegistry() {
		t.Error("album without extra should not be a registry album")
	}
	a.Extra = map[string]string{ExtraMBID: "abc"}
	if a.RegistryID() != "abc" {
		t.Errorf("RegistryID() = %q", a.RegistryID())
	}
	if (&Track{}).DiscNumber() != 1 {
		t.Error("zero disc should default to 1")
	}
}
