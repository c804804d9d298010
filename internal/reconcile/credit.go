package reconcile

import (
	"context"
	"strings"

	"github.com/sydlexius/mbmerge/internal/release"
)

// ResolveCredit normalizes a raw credit into alternating name pairs and join
// phrases and resolves every link to a registry identifier. Bare literals in
// name position become unresolved pairs; names with nothing between them get
// ", " inserted. The returned key renders resolved names as [Name] and
// unresolved ones as {Name}, for review only.
func ResolveCredit(ctx context.Context, resolver Resolver, raw release.Credit) (string, release.Credit) {
	if resolver == nil {
		resolver = noResolver{}
	}

	var out release.Credit
	expectName := true
	for _, e := range raw {
		if !e.Pair {
			if expectName {
				out = append(out, release.Named(e.Text, ""))
			} else {
				out = append(out, release.Literal(e.Text))
			}
			expectName = !expectName
			continue
		}
		if !expectName {
			out = append(out, release.Literal(commaPhrase))
		}
		id := ""
		if e.Link != "" && e.Link != release.UnknownLink {
			if resolved, ok := resolver.ResolveIdentifier(ctx, e.Link); ok {
				id = resolved
			}
		}
		out = append(out, release.Named(e.Text, id))
		expectName = false
	}
	return CreditKey(out), out
}

// CreditKey renders a resolved credit for display.
func CreditKey(credit release.Credit) string {
	var b strings.Builder
	for _, e := range credit {
		switch {
		case !e.Pair:
			b.WriteString(e.Text)
		case e.Link != "":
			b.WriteString("[" + e.Text + "]")
		default:
			b.WriteString("{" + e.Text + "}")
		}
	}
	return b.String()
}
