package posts_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/social-dashboard/apiclient/apifake"
	"github.com/jrsteele09/social-dashboard/internal/errors"
	"github.com/jrsteele09/social-dashboard/posts"
	"github.com/stretchr/testify/require"
)

func TestService_List(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	api := apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, []map[string]any{
		{
			"id":         1,
			"content":    "Spring sale",
			"platforms":  []string{"instagram"},
			"goal":       "promotion",
			"status":     "generated",
			"created_at": created.Format(time.RFC3339),
			"generated_outputs": map[string]any{
				"instagram": map[string]string{"caption": "20% off", "hashtags": "#sale"},
			},
		},
	})

	got, err := posts.NewService(api).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, posts.GeneratedStatus, got[0].Status)
	require.Equal(t, "instagram", got[0].PrimaryPlatform())
	require.True(t, created.Equal(got[0].CreatedAt))
	require.Equal(t, "#sale", got[0].GeneratedOutputs["instagram"].Hashtags)
}

func TestService_ListEmpty(t *testing.T) {
	api := apifake.NewFakeAPI().Respond(http.MethodGet, posts.PostsPath, []any{})
	got, err := posts.NewService(api).List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestService_ListFailure(t *testing.T) {
	api := apifake.NewFakeAPI().Fail(http.MethodGet, posts.PostsPath, http.StatusInternalServerError)
	_, err := posts.NewService(api).List(context.Background())
	require.True(t, errors.Is(err, errors.ErrFetchFailure))
}

func TestService_Create(t *testing.T) {
	api := apifake.NewFakeAPI().Handle(http.MethodPost, posts.PostsPath, func(_ context.Context, body any) (any, error) {
		np := body.(posts.NewPost)
		return map[string]any{"id": 9, "content": np.Content, "status": "generating", "goal": np.Goal}, nil
	})

	got, err := posts.NewService(api).Create(context.Background(), posts.NewPost{
		Content:   "We're hiring",
		Goal:      posts.HiringGoal,
		Platforms: []string{"instagram"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(9), got.ID)
	require.Equal(t, posts.GeneratingStatus, got.Status)
	require.Equal(t, posts.HiringGoal, got.Goal)
}

func TestStatus_Scheduled(t *testing.T) {
	require.True(t, posts.DraftStatus.Scheduled())
	require.True(t, posts.GeneratingStatus.Scheduled())
	require.True(t, posts.GeneratedStatus.Scheduled())
	require.False(t, posts.PublishedStatus.Scheduled())
	require.False(t, posts.FailedStatus.Scheduled())
	require.False(t, posts.Status("archived").Scheduled())
}
