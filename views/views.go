// Package views renders the dashboard's routed screens as text. Each view
// mounts through a session-scoped API, keeps its fetch state in a loader and
// renders only from that state.
package views

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jrsteele09/social-dashboard/posts"
)

const (
	LoadingPostsMessage = "Loading posts..."
	NoPostsMessage      = "No posts found."
	UntitledPost        = "Untitled Post"
	DefaultPlatform     = "INSTAGRAM"

	timeLayout     = "2006-01-02 15:04"
	maxContentRune = 48
)

type options struct {
	colour   bool
	location *time.Location
}

type Option func(*options)

// WithColour enables ANSI colour in rendered output.
func WithColour(enabled bool) Option {
	return func(o *options) {
		o.colour = enabled
	}
}

// WithLocation sets the time zone dates are rendered in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func newOptions(opts []Option) options {
	o := options{location: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) heading(w io.Writer, title string) {
	fmt.Fprintln(w, o.paint(Bold, title))
	fmt.Fprintln(w, strings.Repeat("-", utf8.RuneCountInString(title)))
}

func (o options) date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(o.location).Format(timeLayout)
}

func contentLine(p posts.Post) string {
	content := strings.Join(strings.Fields(p.Content), " ")
	if content == "" {
		return UntitledPost
	}
	if utf8.RuneCountInString(content) > maxContentRune {
		runes := []rune(content)
		content = string(runes[:maxContentRune-3]) + "..."
	}
	return content
}

func platformLabel(p posts.Post) string {
	if platform := p.PrimaryPlatform(); platform != "" {
		return strings.ToUpper(platform)
	}
	return DefaultPlatform
}
