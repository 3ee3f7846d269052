package views

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/social-dashboard/apiclient"
	"github.com/jrsteele09/social-dashboard/loader"
	"github.com/jrsteele09/social-dashboard/posts"
	"github.com/rs/zerolog"
)

// Posts lists every post of the signed-in user.
type Posts struct {
	loader *loader.Loader[[]posts.Post]
	opts   options
}

func NewPosts(logger zerolog.Logger, opts ...Option) *Posts {
	return &Posts{
		loader: loader.New[[]posts.Post]("posts", logger),
		opts:   newOptions(opts),
	}
}

// Mount issues the view's single fetch.
func (v *Posts) Mount(ctx context.Context, api apiclient.API) {
	v.loader.Load(ctx, posts.NewService(api).List)
}

func (v *Posts) State() loader.State[[]posts.Post] {
	return v.loader.State()
}

// Render shows the table. A failed fetch renders the same "no posts"
// affordance as an empty result; the failure itself is only logged.
func (v *Posts) Render(w io.Writer) error {
	v.opts.heading(w, "Posts")
	st := v.loader.State()
	switch {
	case st.Status == loader.Loading:
		_, err := fmt.Fprintln(w, LoadingPostsMessage)
		return err
	case st.Status == loader.Failed || len(st.Data) == 0:
		_, err := fmt.Fprintln(w, NoPostsMessage)
		return err
	}
	return v.opts.postsTable(w, st.Data, true)
}

func (o options) postsTable(w io.Writer, list []posts.Post, withMedia bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if withMedia {
		fmt.Fprintln(tw, "ID\tCONTENT\tPLATFORM\tSTATUS\tCREATED\tMEDIA")
	} else {
		fmt.Fprintln(tw, "ID\tCONTENT\tPLATFORM\tSTATUS\tCREATED")
	}
	for _, p := range list {
		row := fmt.Sprintf("%d\t%s\t%s\t%s\t%s", p.ID, contentLine(p), platformLabel(p), o.statusBadge(p.Status), o.date(p.CreatedAt))
		if withMedia {
			media := p.MediaURL
			if media == "" {
				media = "-"
			}
			row += "\t" + media
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}
