package musicbrainz

// MusicBrainz API response types.

// MBArtist represents a MusicBrainz artist entity.
type MBArtist struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	SortName       string       `json:"sort-name"`
	Disambiguation string       `json:"disambiguation"`
	Country        string       `json:"country"`
	Relations      []MBRelation `json:"relations"`
}

// MBRelation represents a relationship between entities.
type MBRelation struct {
	Type       string         `json:"type"`
	TargetType string         `json:"target-type"`
	Direction  string         `json:"direction"`
	URL        *MBRelationURL `json:"url,omitempty"`
	Artist     *MBArtist      `json:"artist,omitempty"`
	Release    *MBReleaseRef  `json:"release,omitempty"`
}

// MBRelationURL holds URL data within a relation.
type MBRelationURL struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
}

// MBReleaseRef is a release as referenced from a relation.
type MBReleaseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MBReleaseBrowseResponse is one page of the release browse endpoint.
type MBReleaseBrowseResponse struct {
	ReleaseCount  int         `json:"release-count"`
	ReleaseOffset int         `json:"release-offset"`
	Releases      []MBRelease `json:"releases"`
}

// MBRelease represents a MusicBrainz release with its media and URL
// relations.
type MBRelease struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Date         string           `json:"date"`
	Country      string           `json:"country"`
	Barcode      string           `json:"barcode"`
	Status       string           `json:"status"`
	ArtistCredit []MBArtistCredit `json:"artist-credit"`
	Media        []MBMedium       `json:"media"`
	Relations    []MBRelation     `json:"relations"`
}

// MBArtistCredit is one name in an artist credit.
type MBArtistCredit struct {
	Name       string   `json:"name"`
	JoinPhrase string   `json:"joinphrase"`
	Artist     MBArtist `json:"artist"`
}

// MBMedium is one disc of a release.
type MBMedium struct {
	Position int       `json:"position"`
	Format   string    `json:"format"`
	Tracks   []MBTrack `json:"tracks"`
}

// MBTrack is a track on a medium.
type MBTrack struct {
	ID           string           `json:"id"`
	Position     int              `json:"position"`
	Number       string           `json:"number"`
	Title        string           `json:"title"`
	Length       *int             `json:"length"`
	ArtistCredit []MBArtistCredit `json:"artist-credit"`
}

// MBURLLookup is the response of the url lookup endpoint.
type MBURLLookup struct {
	ID        string       `json:"id"`
	Resource  string       `json:"resource"`
	Relations []MBRelation `json:"relations"`
}
