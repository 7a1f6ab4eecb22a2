// Package notify sends desktop notifications when the editor saves an
// image, copies a selection or finishes a wand selection. Each event is off
// until enabled.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const appName = "pixwand"

// previewLifetime is how long a selection preview icon outlives its
// notification. Notification servers load icons asynchronously.
var previewLifetime = time.Minute

// Event identifies a notification trigger.
type Event string

const (
	EventSave   Event = "save"
	EventCopy   Event = "copy"
	EventSelect Event = "select"
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification where the platform supports it.
	IconPath string
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts Options) error

// Preferences holds the title and per-event body templates. Each template
// takes a single %s for the event detail.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

func DefaultPreferences() Preferences {
	return Preferences{
		Title: appName,
		Templates: map[Event]string{
			EventSave:   "Saved %s",
			EventCopy:   "Copied %s to clipboard",
			EventSelect: "Selected %s",
		},
	}
}

// LoadPreferences applies PIXWAND_NOTIFY_* overrides from the environment
// to the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PIXWAND_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, ev := range []Event{EventSave, EventCopy, EventSelect} {
		key := "PIXWAND_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[ev] = v
		}
	}
	return prefs
}

// Notifier dispatches enabled events. A nil Notifier is valid and silent.
// Once configured it may be used from several goroutines; delivery blocks
// on the platform call, so interactive callers send from a goroutine.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
}

func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))}
	for k, v := range prefs.Templates {
		cloned.Templates[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platformSend}
}

// SetSender replaces the platform delivery, mainly for tests.
func (n *Notifier) SetSender(send SendFunc) {
	if n != nil && send != nil {
		n.send = send
	}
}

func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Save reports a written file using its absolute path, with the file itself
// as the icon.
func (n *Notifier) Save(path string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	var opts Options
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy reports a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "selection"
	}
	n.dispatch(EventCopy, detail, Options{})
}

// Select reports a completed selection. When preview is non-nil it is
// written to a temporary PNG, used as the icon and removed after
// previewLifetime.
func (n *Notifier) Select(detail string, preview image.Image) {
	if !n.Enabled(EventSelect) {
		return
	}
	var opts Options
	if preview != nil {
		path, cleanup, err := writePreview(preview)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			time.AfterFunc(previewLifetime, cleanup)
			opts.IconPath = path
		}
	}
	n.dispatch(EventSelect, detail, opts)
}

func (n *Notifier) dispatch(event Event, detail string, opts Options) {
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "pixwand-select-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
