package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/mbmerge/internal/filesystem"
	"github.com/sydlexius/mbmerge/internal/reconcile"
)

// Emitter hands a submission on.
type Emitter interface {
	Emit(ctx context.Context, sub *reconcile.Submission) error
}

// BrowserEmitter registers each submission with a Server and opens it in
// the curator's browser.
type BrowserEmitter struct {
	server  *Server
	harmony bool
	open    func(url string) error
	logger  *slog.Logger
}

// NewBrowserEmitter creates a BrowserEmitter. With openBrowser unset the
// local URL is only logged.
func NewBrowserEmitter(server *Server, harmony, openBrowser bool, logger *slog.Logger) *BrowserEmitter {
	e := &BrowserEmitter{
		server:  server,
		harmony: harmony,
		logger:  logger.With(slog.String("component", "submit")),
	}
	if openBrowser {
		e.open = OpenBrowser
	}
	return e
}

// SetOpener replaces the function used to open URLs.
func (e *BrowserEmitter) SetOpener(open func(url string) error) { e.open = open }

// Emit implements curation.Emitter. New releases get a fresh UUID; edits are
// registered under the release MBID.
func (e *BrowserEmitter) Emit(_ context.Context, sub *reconcile.Submission) error {
	id := sub.TargetID
	if sub.Action != reconcile.ActionEdit || id == "" {
		id = uuid.NewString()
	}
	e.server.Register(id, ActionFor(sub, e.harmony))

	u := e.server.URL(id)
	e.logger.Info("submission ready", slog.String("action", sub.Action), slog.String("url", u))
	if e.open == nil {
		return nil
	}
	if err := e.open(u); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

// OpenBrowser opens u with the platform's default handler.
func OpenBrowser(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	return cmd.Start()
}

// dump is the on-disk form of a submission.
type dump struct {
	Action   string            `json:"action"`
	TargetID string            `json:"target_id,omitempty"`
	Sources  []string          `json:"sources"`
	Fields   *reconcile.Fields `json:"fields"`
}

// DumpEmitter writes each submission as a JSON file into a directory.
type DumpEmitter struct {
	dir string
	now func() time.Time
}

// NewDumpEmitter creates a DumpEmitter writing into dir.
func NewDumpEmitter(dir string) *DumpEmitter {
	return &DumpEmitter{dir: dir, now: time.Now}
}

// Emit implements curation.Emitter.
func (d *DumpEmitter) Emit(_ context.Context, sub *reconcile.Submission) error {
	out := dump{Action: sub.Action, TargetID: sub.TargetID, Fields: sub.Fields}
	for _, a := range sub.Albums {
		out.Sources = append(out.Sources, a.URL)
	}
	if out.Fields == nil {
		out.Fields = reconcile.NewFields()
	}

	name := sub.TargetID
	if name == "" {
		name = uuid.NewString()
	}
	file := fmt.Sprintf("%s-%s-%s.json", d.now().UTC().Format("20060102T150405"), sub.Action, name)
	return filesystem.WriteJSONAtomic(filepath.Join(d.dir, file), out, 0o644)
}

// Multi emits to every emitter in turn and joins their errors.
type Multi []Emitter

// Emit implements curation.Emitter.
func (m Multi) Emit(ctx context.Context, sub *reconcile.Submission) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(ctx, sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
