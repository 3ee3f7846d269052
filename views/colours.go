package views

import "github.com/jrsteele09/social-dashboard/posts"

const (
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Gray   = "\033[90m" // Bright black, often appears as gray

	Bold       = "\033[1m"
	ResetColor = "\033[0m" // Reset to default color
)

var statusColors = map[posts.Status]string{
	posts.PublishedStatus:  Green,
	posts.GeneratingStatus: Blue,
	posts.GeneratedStatus:  Blue,
	posts.FailedStatus:     Red,
	posts.DraftStatus:      Gray,
}

// paint wraps s in colour when colour output is enabled.
func (o options) paint(colour, s string) string {
	if !o.colour || colour == "" {
		return s
	}
	return colour + s + ResetColor
}

func (o options) statusBadge(s posts.Status) string {
	label := string(s)
	if label == "" {
		label = "unknown"
	}
	colour, ok := statusColors[s]
	if !ok {
		colour = Gray
	}
	return o.paint(colour, label)
}
