// Package submit hands reconciled submissions to MusicBrainz. The registry
// only accepts seeded edits through a browser form post, so a small local
// server renders an auto-submitting form per submission and the browser is
// pointed at it. Submissions can also be dumped as JSON files.
package submit
