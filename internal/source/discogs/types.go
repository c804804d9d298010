package discogs

// Discogs API response types.

// Pagination holds pagination info.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// ArtistReleasesResponse is one page of an artist's releases and masters.
type ArtistReleasesResponse struct {
	Pagination Pagination      `json:"pagination"`
	Releases   []ArtistRelease `json:"releases"`
}

// ArtistRelease is an entry of the artist releases listing.
type ArtistRelease struct {
	ID          int    `json:"id"`
	Type        string `json:"type"` // "release" or "master"
	Title       string `json:"title"`
	Role        string `json:"role"`
	Year        int    `json:"year"`
	ResourceURL string `json:"resource_url"`
}

// ReleaseDetail is the full release response.
type ReleaseDetail struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Year        int          `json:"year"`
	URI         string       `json:"uri"`
	Thumb       string       `json:"thumb"`
	Country     string       `json:"country"`
	Artists     []ArtistRef  `json:"artists"`
	Tracklist   []Track      `json:"tracklist"`
	Identifiers []Identifier `json:"identifiers"`
	Genres      []string     `json:"genres"`
	Formats     []Format     `json:"formats"`
}

// ArtistRef is an artist credited on a release or track.
type ArtistRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	ANV  string `json:"anv"`
	Join string `json:"join"`
}

// Track is an entry of a release tracklist.
type Track struct {
	Position string      `json:"position"`
	Type     string      `json:"type_"` // "track", "heading" or "index"
	Title    string      `json:"title"`
	Duration string      `json:"duration"`
	Artists  []ArtistRef `json:"artists"`
}

// Identifier is a barcode, matrix number or similar code.
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Format describes the physical or digital format of a release.
type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Descriptions []string `json:"descriptions"`
}
