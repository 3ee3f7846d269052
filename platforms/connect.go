package platforms

import (
	"context"
	"fmt"

	"github.com/jrsteele09/social-dashboard/apiclient"
)

const Instagram = "instagram"

// ConnectPath returns the path that begins the connection handshake for a
// platform.
func ConnectPath(platform string) string {
	return fmt.Sprintf("/platforms/%s/connect/", platform)
}

type connectResponse struct {
	URL string `json:"url"`
}

type Service struct {
	api apiclient.API
}

func NewService(api apiclient.API) *Service {
	return &Service{api: api}
}

// Connect returns the external URL the user must visit to authorise the
// platform.
func (s *Service) Connect(ctx context.Context, platform string) (string, error) {
	var resp connectResponse
	if err := s.api.Get(ctx, ConnectPath(platform), &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("connect %s: response has no url", platform)
	}
	return resp.URL, nil
}
