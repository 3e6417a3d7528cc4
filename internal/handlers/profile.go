package handlers

import (
	"context"
	"fmt"

	"github.com/alimgiray/gitch/internal/display"
	"github.com/alimgiray/gitch/internal/models"
	"github.com/alimgiray/gitch/internal/renderer"
	"github.com/alimgiray/gitch/internal/services"
	"github.com/alimgiray/gitch/pkg/logger"
)

type ProfileOptions struct {
	AvatarWidth  int
	AvatarHeight int
	NoAvatar     bool
	SkipRepos    bool
	HasToken     bool
}

// ProfileHandler runs the fetch, render and print pipeline for one user
type ProfileHandler struct {
	githubService *services.GitHubService
	avatarService *services.AvatarService
	renderer      renderer.Renderer
	composer      *display.Composer
	options       ProfileOptions
}

func NewProfileHandler(
	githubService *services.GitHubService,
	avatarService *services.AvatarService,
	avatarRenderer renderer.Renderer,
	composer *display.Composer,
	options ProfileOptions,
) *ProfileHandler {
	return &ProfileHandler{
		githubService: githubService,
		avatarService: avatarService,
		renderer:      avatarRenderer,
		composer:      composer,
		options:       options,
	}
}

// Show prints the profile card of username, or of a random user when username is empty
func (h *ProfileHandler) Show(ctx context.Context, username string) error {
	if h.options.HasToken {
		logger.Infof("Using GitHub API token")
	} else {
		logger.Infof("No GitHub token found, using public API (rate limited). Set GITHUB_TOKEN for better rate limits")
	}

	h.checkRateLimit(ctx)

	login, err := h.githubService.ResolveUsername(ctx, username)
	if err != nil {
		return err
	}

	profile, err := h.githubService.GetProfile(ctx, login)
	if err != nil {
		return err
	}
	logger.WithField("login", profile.Login).Info("Fetched profile")

	if !h.options.SkipRepos {
		stats, err := h.githubService.GetRepoStats(ctx, profile.Login)
		if err != nil {
			// The card is printed without repository stats
			logger.WithError(err).Warn("Could not analyze repositories")
		} else {
			profile.Stats = stats
		}
	}

	return h.composer.Write(profile, h.renderAvatar(ctx, profile))
}

// checkRateLimit logs the remaining API budget and warns when it is low
func (h *ProfileHandler) checkRateLimit(ctx context.Context) {
	limit, err := h.githubService.GetRateLimit(ctx)
	if err != nil {
		logger.WithError(err).Debug("Could not check rate limit")
		return
	}

	logger.Infof("API rate limit: %d/%d remaining", limit.Remaining, limit.Limit)
	if limit.IsLow() {
		logger.Warnf("Low API rate limit remaining: %d/%d, resets at %s",
			limit.Remaining, limit.Limit, limit.Reset.Local().Format("15:04:05"))
	}
}

// renderAvatar returns the avatar lines, or nil when the avatar cannot be shown
func (h *ProfileHandler) renderAvatar(ctx context.Context, profile *models.Profile) []string {
	if h.options.NoAvatar || !h.composer.FitsAvatar() {
		return nil
	}

	if !h.renderer.Available() {
		logger.WithError(renderer.ErrUnavailable).Warn("Showing profile without avatar")
		return nil
	}

	lines, err := h.loadAvatar(ctx, profile)
	if err != nil {
		logger.WithError(err).Warn("Showing profile without avatar")
		return nil
	}
	return lines
}

func (h *ProfileHandler) loadAvatar(ctx context.Context, profile *models.Profile) ([]string, error) {
	image, err := h.avatarService.Download(ctx, services.AvatarURL(profile))
	if err != nil {
		return nil, err
	}

	lines, err := h.renderer.Render(ctx, image, h.options.AvatarWidth, h.options.AvatarHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to render avatar: %w", err)
	}
	return lines, nil
}
