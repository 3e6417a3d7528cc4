package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/alimgiray/gitch/internal/models"
	"github.com/alimgiray/gitch/pkg/config"
	"github.com/alimgiray/gitch/pkg/logger"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const (
	// randomEventSample is how many public events the random-user path looks at
	randomEventSample = 50

	// repoStatsPageSize is the number of recently updated repositories summarized
	repoStatsPageSize = 100
)

type GitHubService struct {
	client *github.Client
	pick   func(n int) int
}

// GitHubServiceOption customizes a GitHubService
type GitHubServiceOption func(*GitHubService)

// WithPicker replaces the random index picker used to choose a random user
func WithPicker(pick func(n int) int) GitHubServiceOption {
	return func(s *GitHubService) {
		s.pick = pick
	}
}

func NewGitHubService(cfg config.GitHubConfig, userAgent string, opts ...GitHubServiceOption) (*GitHubService, error) {
	client := github.NewClient(createHTTPClient(cfg.Token, time.Duration(cfg.Timeout)*time.Second))
	client.UserAgent = userAgent

	if cfg.APIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
		}
		client.BaseURL = baseURL
	}

	s := &GitHubService{
		client: client,
		pick:   rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// createHTTPClient creates an HTTP client that attaches the token as a bearer
// Authorization header. An empty token yields a client that sends no such header.
func createHTTPClient(token string, timeout time.Duration) *http.Client {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		httpClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	return httpClient
}

// validLogin matches GitHub's login rules, plus the suffix app accounts carry.
// go-github puts logins into the request path unescaped.
var validLogin = regexp.MustCompile(`^[A-Za-z0-9](?:-?[A-Za-z0-9]){0,38}(?:\[bot\])?$`)

func checkLogin(login string) error {
	if !validLogin.MatchString(login) {
		return fmt.Errorf("%w: %q is not a valid GitHub login", ErrUserNotFound, login)
	}
	return nil
}

// ResolveUsername returns username unchanged, or picks a random one when it is empty
func (s *GitHubService) ResolveUsername(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username != "" {
		if err := checkLogin(username); err != nil {
			return "", err
		}
		return username, nil
	}
	return s.RandomUsername(ctx)
}

// RandomUsername picks the login of a random actor from the public events feed
func (s *GitHubService) RandomUsername(ctx context.Context) (string, error) {
	logger.Infof("Fetching random user from recent events...")

	events, _, err := s.client.Activity.ListEvents(ctx, &github.ListOptions{PerPage: randomEventSample})
	if err != nil {
		return "", classifyError(err, "public events")
	}

	logins := make([]string, 0, len(events))
	seen := make(map[string]bool)
	for _, event := range events {
		login := event.GetActor().GetLogin()
		if seen[login] || !validLogin.MatchString(login) {
			continue
		}
		seen[login] = true
		logins = append(logins, login)
	}

	if len(logins) == 0 {
		return "", ErrNoRecentEvents
	}

	login := logins[s.pick(len(logins))]
	logger.WithField("login", login).Info("Selected random user")
	return login, nil
}

// GetProfile fetches the public profile of login
func (s *GitHubService) GetProfile(ctx context.Context, login string) (*models.Profile, error) {
	if login == "" {
		// Users.Get with an empty login would return the authenticated user
		return nil, errors.New("username is required")
	}
	if err := checkLogin(login); err != nil {
		return nil, err
	}

	logger.WithField("login", login).Info("Fetching user profile")

	user, _, err := s.client.Users.Get(ctx, login)
	if err != nil {
		return nil, classifyError(err, login)
	}

	return createProfileFromAPI(user), nil
}

// GetRepoStats summarizes the most recently updated repositories owned by login
func (s *GitHubService) GetRepoStats(ctx context.Context, login string) (*models.RepoStats, error) {
	logger.WithField("login", login).Info("Analyzing repositories")

	opt := &github.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: repoStatsPageSize},
	}

	repos, _, err := s.client.Repositories.List(ctx, login, opt)
	if err != nil {
		return nil, classifyError(err, login+"/repos")
	}

	stats := summarizeRepositories(repos)
	logger.WithFields(map[string]interface{}{
		"login":            login,
		"repositories":     stats.Repositories,
		"primary_language": stats.PrimaryLanguage,
	}).Debug("Repository summary")
	return stats, nil
}

// GetRateLimit returns the core request budget of the current credentials
func (s *GitHubService) GetRateLimit(ctx context.Context) (*models.RateLimit, error) {
	limits, _, err := s.client.RateLimits(ctx)
	if err != nil {
		return nil, classifyError(err, "rate limit")
	}

	core := limits.GetCore()
	if core == nil {
		return nil, errors.New("rate limit response has no core bucket")
	}

	return &models.RateLimit{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     core.Reset.Time,
	}, nil
}

// summarizeRepositories counts stars and languages. The primary language is
// the most frequent one; ties go to the language seen first.
func summarizeRepositories(repos []*github.Repository) *models.RepoStats {
	stats := &models.RepoStats{
		Repositories:    len(repos),
		PrimaryLanguage: models.UnknownValue,
		Languages:       make(map[string]int),
	}

	var order []string
	for _, repo := range repos {
		stats.TotalStars += repo.GetStargazersCount()

		language := repo.GetLanguage()
		if language == "" {
			continue
		}
		if _, ok := stats.Languages[language]; !ok {
			order = append(order, language)
		}
		stats.Languages[language]++
	}

	best := 0
	for _, language := range order {
		if count := stats.Languages[language]; count > best {
			best = count
			stats.PrimaryLanguage = language
		}
	}

	return stats
}

// createProfileFromAPI creates a Profile from GitHub API data
func createProfileFromAPI(user *github.User) *models.Profile {
	return &models.Profile{
		ID:          user.GetID(),
		Login:       user.GetLogin(),
		DisplayName: user.Name,
		Bio:         user.Bio,
		Company:     user.Company,
		Location:    user.Location,
		Blog:        user.Blog,
		Followers:   max(user.GetFollowers(), 0),
		Following:   max(user.GetFollowing(), 0),
		PublicRepos: max(user.GetPublicRepos(), 0),
		AvatarURL:   user.GetAvatarURL(),
		HTMLURL:     user.GetHTMLURL(),
		CreatedAt:   user.GetCreatedAt().Time,
	}
}
