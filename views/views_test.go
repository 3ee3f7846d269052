package views_test

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/social-dashboard/apiclient/apifake"
	"github.com/jrsteele09/social-dashboard/loader"
	"github.com/jrsteele09/social-dashboard/platforms"
	"github.com/jrsteele09/social-dashboard/posts"
	"github.com/jrsteele09/social-dashboard/views"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)


func renderPosts(t *testing.T, v *views.Posts) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	return buf.String()
}

func samplePosts() []map[string]any {
	return []map[string]any{
		{"id": 1, "content": "Launch day", "platform": "instagram", "status": "published", "created_at": "2026-01-02T10:00:00Z", "media_url": "https://cdn.example/1.jpg"},
		{"id": 2, "content": "", "status": "generating", "created_at": "2026-01-03T10:00:00Z"},
		{"id": 3, "content": "Oops", "platforms": []string{"linkedin"}, "status": "failed", "created_at": "2026-01-01T10:00:00Z"},
	}
}

func TestPosts_Loading(t *testing.T) {
	v := views.NewPosts(zerolog.Nop())
	out := renderPosts(t, v)
	require.Contains(t, out, views.LoadingPostsMessage)
	require.NotContains(t, out, views.NoPostsMessage)
}

func TestPosts_Empty(t *testing.T) {
	api := apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, []any{})
	v := views.NewPosts(zerolog.Nop())
	v.Mount(context.Background(), api)

	require.Equal(t, loader.Loaded, v.State().Status)
	out := renderPosts(t, v)
	require.Contains(t, out, views.NoPostsMessage)
	require.NotContains(t, out, views.LoadingPostsMessage)
	require.Equal(t, 1, api.CallCount(http.MethodGet, posts.PostsPath))
}

func TestPosts_FailureLooksEmptyAndLogsOnce(t *testing.T) {
	empty := views.NewPosts(zerolog.Nop())
	empty.Mount(context.Background(), apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, []any{}))

	var logs bytes.Buffer
	failed := views.NewPosts(zerolog.New(&logs))
	failed.Mount(context.Background(), apifake.NewFakeAPI().Fail(http.MethodGet, posts.PostsPath, http.StatusInternalServerError))

	require.Equal(t, loader.Failed, failed.State().Status)
	require.Equal(t, renderPosts(t, empty), renderPosts(t, failed))
	require.Equal(t, 1, strings.Count(logs.String(), `"level":"error"`))
}

func TestPosts_Table(t *testing.T) {
	api := apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, samplePosts())
	v := views.NewPosts(zerolog.Nop())
	v.Mount(context.Background(), api)

	out := renderPosts(t, v)
	require.Contains(t, out, "Launch day")
	require.Contains(t, out, views.UntitledPost)
	require.Contains(t, out, "INSTAGRAM")
	require.Contains(t, out, "LINKEDIN")
	require.Contains(t, out, "https://cdn.example/1.jpg")
	require.Contains(t, out, "2026-01-02 10:00")
	require.NotContains(t, out, views.NoPostsMessage)
	require.NotContains(t, out, "\033[")
}

func TestPosts_Colour(t *testing.T) {
	api := apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, samplePosts())
	v := views.NewPosts(zerolog.Nop(), views.WithColour(true))
	v.Mount(context.Background(), api)
	require.Contains(t, renderPosts(t, v), views.Green+"published"+views.ResetColor)
}

func TestSummarise(t *testing.T) {
	list := []posts.Post{
		{Status: posts.PublishedStatus},
		{Status: posts.PublishedStatus},
		{Status: posts.PublishedStatus},
		{Status: posts.FailedStatus},
		{Status: posts.DraftStatus},
		{Status: posts.GeneratingStatus},
		{Status: "archived"},
	}
	s := views.Summarise(list)
	require.Equal(t, views.Summary{Total: 7, Scheduled: 2, Published: 3, Failed: 1}, s)

	rate, ok := s.SuccessRate()
	require.True(t, ok)
	require.InDelta(t, 75.0, rate, 0.001)

	_, ok = views.Summary{Scheduled: 2}.SuccessRate()
	require.False(t, ok)
}

func TestRecent(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var list []posts.Post
	for i := 0; i < 7; i++ {
		list = append(list, posts.Post{ID: int64(i), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	recent := views.Recent(list, views.RecentPostsLimit)
	require.Len(t, recent, views.RecentPostsLimit)
	require.Equal(t, int64(6), recent[0].ID)
	require.Equal(t, int64(2), recent[4].ID)
	require.Equal(t, int64(0), list[0].ID)
}

func TestDashboard(t *testing.T) {
	t.Run("loaded", func(t *testing.T) {
		api := apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, samplePosts())
		v := views.NewDashboard(zerolog.Nop())
		v.Mount(context.Background(), api)

		var buf bytes.Buffer
		require.NoError(t, v.Render(&buf))
		out := buf.String()
		require.Regexp(t, `Total Posts\s+3\n`, out)
		require.Regexp(t, `Success Rate\s+50%\n`, out)
		require.Contains(t, out, "Launch day")
		require.Less(t, strings.Index(out, views.UntitledPost), strings.Index(out, "Launch day"))
	})

	t.Run("failed matches empty", func(t *testing.T) {
		empty := views.NewDashboard(zerolog.Nop())
		empty.Mount(context.Background(), apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, []any{}))
		failed := views.NewDashboard(zerolog.Nop())
		failed.Mount(context.Background(), apifake.NewFakeAPI())

		var a, b bytes.Buffer
		require.NoError(t, empty.Render(&a))
		require.NoError(t, failed.Render(&b))
		require.Equal(t, a.String(), b.String())
		require.Contains(t, a.String(), views.NoPostsMessage)
		require.Regexp(t, `Success Rate\s+-\n`, a.String())
	})
}

func renderPlatforms(t *testing.T, query string) (*views.Platforms, string) {
	t.Helper()
	q, err := url.ParseQuery(query)
	require.NoError(t, err)
	v := views.NewPlatforms(q, zerolog.Nop())
	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	return v, buf.String()
}

func TestPlatforms_RedirectStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		v, out := renderPlatforms(t, "status=success")
		require.Equal(t, platforms.Connected, v.Status().State)
		require.Contains(t, out, "Connected")
		require.NotContains(t, out, "Error")
	})

	t.Run("error with message", func(t *testing.T) {
		v, out := renderPlatforms(t, "status=error&message=Denied")
		require.Equal(t, platforms.Errored, v.Status().State)
		require.Contains(t, out, "Denied")
		require.NotContains(t, out, "Connected")
	})

	t.Run("no parameters", func(t *testing.T) {
		v, out := renderPlatforms(t, "")
		require.Equal(t, platforms.Neutral, v.Status().State)
		require.NotContains(t, strings.ToLower(out), "connected")
		require.NotContains(t, out, "Denied")
		require.NotContains(t, out, "Error")
	})
}

func TestPlatforms_Connect(t *testing.T) {
	path := platforms.ConnectPath(platforms.Instagram)

	t.Run("not mounted", func(t *testing.T) {
		v := views.NewPlatforms(url.Values{}, zerolog.Nop())
		_, err := v.Connect(context.Background())
		require.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		api := apifake.NewFakeAPI().Respond(http.MethodGet, path, map[string]string{"url": "https://meta.example/oauth"})
		v := views.NewPlatforms(url.Values{}, zerolog.Nop())
		v.Mount(context.Background(), api)
		require.Empty(t, api.Calls())

		got, err := v.Connect(context.Background())
		require.NoError(t, err)
		require.Equal(t, "https://meta.example/oauth", got)

		var buf bytes.Buffer
		require.NoError(t, v.Render(&buf))
		require.Contains(t, buf.String(), "Authorise at: https://meta.example/oauth")
	})

	t.Run("failure", func(t *testing.T) {
		var logs bytes.Buffer
		api := apifake.NewFakeAPI().Fail(http.MethodGet, path, http.StatusInternalServerError)
		v := views.NewPlatforms(url.Values{}, zerolog.New(&logs))
		v.Mount(context.Background(), api)

		_, err := v.Connect(context.Background())
		require.Error(t, err)
		require.Equal(t, 1, strings.Count(logs.String(), `"level":"error"`))

		var buf bytes.Buffer
		require.NoError(t, v.Render(&buf))
		require.Contains(t, buf.String(), views.ConnectFailedMessage)
	})
}
