package reconcile

// Language is a release language with its ISO 639-3 code and ISO 15924
// script.
type Language struct {
	Name   string
	Code   string
	Script string
}

// UnknownLanguage is the language choice that emits no language fields.
const UnknownLanguage = "Unknown"

// Languages is the fixed list offered when picking a release language.
var Languages = []Language{
	{"English", "eng", "Latn"},
	{"German", "deu", "Latn"},
	{"French", "fra", "Latn"},
	{"Spanish", "spa", "Latn"},
	{"Italian", "ita", "Latn"},
	{"Japanese", "jpn", "Jpan"},
	{"Russian", "rus", "Cyrl"},
	{"Ukrainian", "ukr", "Cyrl"},
	{UnknownLanguage, "und", "Zyyy"},
}

// LookupLanguage finds a language by name.
func LookupLanguage(name string) (Language, bool) {
	for _, l := range Languages {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

// ReleaseTypes is the fixed list offered when picking a release type.
var ReleaseTypes = []string{"Album", "Single", "EP", "Other"}
