package views

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/jrsteele09/social-dashboard/apiclient"
	"github.com/jrsteele09/social-dashboard/loader"
	"github.com/jrsteele09/social-dashboard/posts"
	"github.com/rs/zerolog"
)

// RecentPostsLimit is how many posts the dashboard lists.
const RecentPostsLimit = 5

// Summary aggregates post counts for the dashboard header.
type Summary struct {
	Total     int
	Scheduled int
	Published int
	Failed    int
}

// SuccessRate is the share of finished posts that were published, and false
// when nothing has finished yet.
func (s Summary) SuccessRate() (float64, bool) {
	finished := s.Published + s.Failed
	if finished == 0 {
		return 0, false
	}
	return float64(s.Published) / float64(finished) * 100, true
}

func Summarise(list []posts.Post) Summary {
	s := Summary{Total: len(list)}
	for _, p := range list {
		switch {
		case p.Status == posts.PublishedStatus:
			s.Published++
		case p.Status == posts.FailedStatus:
			s.Failed++
		case p.Status.Scheduled():
			s.Scheduled++
		}
	}
	return s
}

// Recent returns up to limit posts, newest first. list is not modified.
func Recent(list []posts.Post, limit int) []posts.Post {
	sorted := append([]posts.Post(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Dashboard shows totals and the most recent posts.
type Dashboard struct {
	loader *loader.Loader[[]posts.Post]
	opts   options
}

func NewDashboard(logger zerolog.Logger, opts ...Option) *Dashboard {
	return &Dashboard{
		loader: loader.New[[]posts.Post]("dashboard", logger),
		opts:   newOptions(opts),
	}
}

func (v *Dashboard) Mount(ctx context.Context, api apiclient.API) {
	v.loader.Load(ctx, posts.NewService(api).List)
}

func (v *Dashboard) State() loader.State[[]posts.Post] {
	return v.loader.State()
}

// Render treats a failed fetch like an empty one: zero totals and the "no
// posts" affordance.
func (v *Dashboard) Render(w io.Writer) error {
	v.opts.heading(w, "Dashboard Overview")
	st := v.loader.State()
	if st.Status == loader.Loading {
		_, err := fmt.Fprintln(w, LoadingPostsMessage)
		return err
	}

	var list []posts.Post
	if st.Status == loader.Loaded {
		list = st.Data
	}
	summary := Summarise(list)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Posts\t%d\n", summary.Total)
	fmt.Fprintf(tw, "Scheduled\t%d\n", summary.Scheduled)
	if rate, ok := summary.SuccessRate(); ok {
		fmt.Fprintf(tw, "Success Rate\t%.0f%%\n", rate)
	} else {
		fmt.Fprintf(tw, "Success Rate\t-\n")
	}
	fmt.Fprintf(tw, "Failed\t%d\n", summary.Failed)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	v.opts.heading(w, "Recent Posts")
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, NoPostsMessage)
		return err
	}
	return v.opts.postsTable(w, Recent(list, RecentPostsLimit), false)
}
