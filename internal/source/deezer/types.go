package deezer

// albumsResponse is one page of the artist albums endpoint.
type albumsResponse struct {
	Data  []albumRef `json:"data"`
	Total int        `json:"total"`
	Next  string     `json:"next,omitempty"`
}

// albumRef is an album entry in the artist albums listing.
type albumRef struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	RecordType string `json:"record_type"`
}

// albumResult is the album detail response.
type albumResult struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	UPC         string    `json:"upc"`
	Link        string    `json:"link"`
	CoverMedium string    `json:"cover_medium"`
	ReleaseDate string    `json:"release_date"`
	RecordType  string    `json:"record_type"`
	Label       string    `json:"label"`
	Genres      genreList `json:"genres"`
	Artist      artistRef `json:"artist"`
}

// genreList wraps the genres of an album.
type genreList struct {
	Data []struct {
		Name string `json:"name"`
	} `json:"data"`
}

// artistRef is an artist as embedded in albums and tracks.
type artistRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}

// tracksResponse is one page of the album tracks endpoint.
type tracksResponse struct {
	Data  []trackResult `json:"data"`
	Total int           `json:"total"`
	Next  string        `json:"next,omitempty"`
}

// trackResult is a track entry of an album.
type trackResult struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Duration      int       `json:"duration"`
	TrackPosition int       `json:"track_position"`
	DiskNumber    int       `json:"disk_number"`
	Artist        artistRef `json:"artist"`
}
