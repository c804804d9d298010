package submit

import (
	"github.com/sydlexius/mbmerge/internal/reconcile"
)

const (
	// RegistryURL is where seeded forms are posted.
	RegistryURL = "https://musicbrainz.org"

	// HarmonyRedirect sends the curator to Harmony's release actions page
	// once the registry has accepted the edit.
	HarmonyRedirect = "https://harmony.pulsewidth.org.uk/release/actions"
)

// Field is one hidden form input.
type Field struct {
	Name  string
	Value string
}

// Action is a form post waiting to be picked up by the browser.
type Action struct {
	// Path is relative to RegistryURL, e.g. "release/add".
	Path   string
	Fields []Field
}

// ActionFor converts a submission into a form post. With harmony set a
// redirect_uri field is appended.
func ActionFor(sub *reconcile.Submission, harmony bool) Action {
	a := Action{Path: "release/add"}
	if sub.Action == reconcile.ActionEdit {
		a.Path = "release/" + sub.TargetID + "/edit"
	}
	if sub.Fields != nil {
		for _, k := range sub.Fields.Keys() {
			v, _ := sub.Fields.Get(k)
			a.Fields = append(a.Fields, Field{Name: k, Value: v})
		}
	}
	if harmony {
		a.Fields = append(a.Fields, Field{Name: "redirect_uri", Value: HarmonyRedirect})
	}
	return a
}
