package messaging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// HandoffLauncher is used when a remote UI shell does the actual opening.
// The shell tells us whether app schemes resolve on the device; the chosen
// URL is recorded so it can be returned to the shell.
type HandoffLauncher struct {
	appInstalled bool

	mu     sync.Mutex
	opened string
}

func NewHandoffLauncher(appInstalled bool) *HandoffLauncher {
	return &HandoffLauncher{appInstalled: appInstalled}
}

func (l *HandoffLauncher) CanOpen(_ context.Context, url string) bool {
	if isWebURL(url) {
		return true
	}
	return l.appInstalled
}

func (l *HandoffLauncher) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !l.CanOpen(ctx, url) {
		return fmt.Errorf("no handler for %s", scheme(url))
	}
	l.mu.Lock()
	l.opened = url
	l.mu.Unlock()
	return nil
}

// Opened returns the last URL handed off, or "".
func (l *HandoffLauncher) Opened() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opened
}

// WriterLauncher prints links for a human to open, e.g. on a terminal.
// It never claims to handle app schemes.
type WriterLauncher struct {
	w io.Writer
}

func NewWriterLauncher(w io.Writer) *WriterLauncher {
	return &WriterLauncher{w: w}
}

func (l *WriterLauncher) CanOpen(_ context.Context, url string) bool {
	return isWebURL(url)
}

func (l *WriterLauncher) Open(_ context.Context, url string) error {
	_, err := fmt.Fprintf(l.w, "Abrir en el navegador: %s\n", url)
	return err
}

func isWebURL(url string) bool {
	s := scheme(url)
	return s == "http" || s == "https"
}

func scheme(url string) string {
	s, _, found := strings.Cut(url, "://")
	if !found {
		return ""
	}
	return strings.ToLower(s)
}
