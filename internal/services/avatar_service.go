package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alimgiray/gitch/internal/models"
)

// maxAvatarBytes caps the size of a downloaded avatar image
const maxAvatarBytes = 5 << 20

// avatarFallbackURL is used when the profile carries no avatar_url
const avatarFallbackURL = "https://avatars.githubusercontent.com/u/%d"

// AvatarService downloads avatar images. It uses its own client so the API
// token is never sent to the avatar CDN.
type AvatarService struct {
	client    *http.Client
	userAgent string
}

func NewAvatarService(timeout time.Duration, userAgent string) *AvatarService {
	return &AvatarService{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// AvatarURL returns the avatar location of a profile
func AvatarURL(profile *models.Profile) string {
	if profile.AvatarURL != "" {
		return profile.AvatarURL
	}
	if profile.ID > 0 {
		return fmt.Sprintf(avatarFallbackURL, profile.ID)
	}
	return ""
}

// Download fetches the image bytes at avatarURL
func (s *AvatarService) Download(ctx context.Context, avatarURL string) ([]byte, error) {
	if avatarURL == "" {
		return nil, fmt.Errorf("profile has no avatar")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create avatar request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download avatar: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar server returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar body: %w", err)
	}
	if len(body) > maxAvatarBytes {
		return nil, fmt.Errorf("avatar exceeds %d bytes", maxAvatarBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("avatar is empty")
	}

	return body, nil
}
