package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/google/go-github/v57/github"
)

var (
	// ErrUserNotFound is returned when GitHub has no user with the requested login
	ErrUserNotFound = errors.New("user not found")

	// ErrRateLimited is returned when GitHub refuses the request because the rate limit is exhausted
	ErrRateLimited = errors.New("rate limited, supply a token via GITHUB_TOKEN")

	// ErrBadCredentials is returned when the configured token is rejected
	ErrBadCredentials = errors.New("GitHub rejected the token")

	// ErrNetwork is returned when GitHub could not be reached
	ErrNetwork = errors.New("network error")

	// ErrNoRecentEvents is returned when the public events feed has no actor to pick
	ErrNoRecentEvents = errors.New("no recent public events to pick a user from")
)

// classifyError maps go-github and transport errors onto the sentinel errors above.
// subject names the resource that was requested and ends up in the message.
func classifyError(err error, subject string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrUserNotFound, subject)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrBadCredentials, err)
		}
		return fmt.Errorf("GitHub API returned status %d for %s: %w", respErr.Response.StatusCode, subject, err)
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	return fmt.Errorf("failed to fetch %s: %w", subject, err)
}
