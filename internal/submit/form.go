package submit

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// SubmitForm renders a page whose only form posts a's fields to
// base/a.Path as soon as it loads.
func SubmitForm(base string, a Action) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>Submit</title>\n</head>\n<body>\n")
		b.WriteString("<form action=\"")
		b.WriteString(templ.EscapeString(strings.TrimRight(base, "/") + "/" + a.Path))
		b.WriteString("\" method=\"post\">\n")
		for _, f := range a.Fields {
			b.WriteString("<input type=\"hidden\" name=\"")
			b.WriteString(templ.EscapeString(f.Name))
			b.WriteString("\" value=\"")
			b.WriteString(templ.EscapeString(f.Value))
			b.WriteString("\">\n")
		}
		b.WriteString("<input type=\"submit\" value=\"Submit\">\n</form>\n")
		b.WriteString("<script>document.forms[0].submit()</script>\n</body>\n</html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
