// Package identity maps external catalog URLs to MusicBrainz identifiers.
// It normalizes URLs to the form the registry stores and caches answers in
// memory and in SQLite.
package identity
