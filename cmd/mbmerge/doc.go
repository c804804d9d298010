// Command mbmerge gathers an artist's releases from streaming and catalog
// sites, lets a curator match them against MusicBrainz, and seeds the
// resulting add or edit forms in the browser.
package main
