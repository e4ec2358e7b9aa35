// Package relay forwards detection events to the push relay server,
// coalescing rapid repeats so at most one request leaves per debounce window.
package relay

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SolomonGithu/barkdet-go/internal/detection"
)

// Payload is the push message forwarded to the relay server and fanned out
// to subscribed clients.
type Payload struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag,omitempty"`
}

// PayloadForEvent builds the relay payload for a detection event.
func PayloadForEvent(event *detection.Event) Payload {
	label := strings.ReplaceAll(event.Label, "_", " ")
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return Payload{
		ID:    uuid.New().String(),
		Title: fmt.Sprintf("%s detected!", label),
		Body:  fmt.Sprintf("Confidence: %.2f", event.Confidence),
		Tag:   strings.ReplaceAll(event.Label, "_", "-"),
	}
}
