// Package version holds build metadata injected through -ldflags.
package version

// Set at build time with
// -ldflags "-X github.com/sydlexius/mbmerge/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent is the User-Agent sent to catalog APIs. MusicBrainz requires a
// contact URL in it.
func UserAgent() string {
	return "mbmerge/" + Version + " (https://github.com/sydlexius/mbmerge)"
}
