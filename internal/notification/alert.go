package notification

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Alerter is the terminal fallback of the dispatch chain: a synchronous,
// user-visible line on the console. It cannot fail.
type Alerter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewAlerter creates an alerter writing to w, or stderr when w is nil.
func NewAlerter(w io.Writer) *Alerter {
	if w == nil {
		w = os.Stderr
	}
	return &Alerter{w: w}
}

// Alert prints the notification title and body.
func (a *Alerter) Alert(n *Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "%s %s\n", n.Title, n.Body) //nolint:errcheck
}
