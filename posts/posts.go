package posts

import (
	"context"
	"time"

	"github.com/jrsteele09/social-dashboard/apiclient"
)

const PostsPath = "/posts/"

type Status string

const (
	DraftStatus      Status = "draft"
	GeneratingStatus Status = "generating"
	GeneratedStatus  Status = "generated"
	PublishedStatus  Status = "published"
	FailedStatus     Status = "failed"
)

// Scheduled reports whether the post is still on its way to being published.
func (s Status) Scheduled() bool {
	switch s {
	case DraftStatus, GeneratingStatus, GeneratedStatus:
		return true
	}
	return false
}

type Goal string

const (
	PromotionGoal    Goal = "promotion"
	AnnouncementGoal Goal = "announcement"
	HiringGoal       Goal = "hiring"
)

// Output is the generated text for one platform.
type Output struct {
	Caption  string `json:"caption,omitempty"`
	Hashtags string `json:"hashtags,omitempty"`
}

// Post is a post summary as returned by the remote API. The service owns it;
// the client only ever caches the most recent fetch for the life of a view.
type Post struct {
	ID               int64             `json:"id"`
	Content          string            `json:"content"`
	Platform         string            `json:"platform,omitempty"`
	Platforms        []string          `json:"platforms,omitempty"`
	Goal             Goal              `json:"goal,omitempty"`
	Status           Status            `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at,omitempty"`
	MediaURL         string            `json:"media_url,omitempty"`
	GeneratedOutputs map[string]Output `json:"generated_outputs,omitempty"`
}

// PrimaryPlatform returns the platform a post is shown under, falling back to
// the first of its target platforms.
func (p Post) PrimaryPlatform() string {
	if p.Platform != "" {
		return p.Platform
	}
	if len(p.Platforms) > 0 {
		return p.Platforms[0]
	}
	return ""
}

// NewPost is the request body for creating a post. Creation starts text
// generation on the server.
type NewPost struct {
	Content   string   `json:"content"`
	Goal      Goal     `json:"goal"`
	Platforms []string `json:"platforms"`
}

type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := s.api.Get(ctx, PostsPath, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Post{}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, p NewPost) (Post, error) {
	var out Post
	if err := s.api.Post(ctx, PostsPath, p, &out); err != nil {
		return Post{}, err
	}
	return out, nil
}
