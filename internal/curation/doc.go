// Package curation drives an interactive session over the catalogs the
// sources listed for one artist: it groups albums by title, asks the
// curator which album of each source belongs together, reconciles the
// picks and hands the result to an emitter. Bans persist across sessions.
package curation
