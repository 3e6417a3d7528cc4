package models

import (
	"strconv"
	"strings"
	"time"
)

// Profile is the flat record of GitHub user fields fetched for display
type Profile struct {
	ID          int64      `json:"id"`
	Login       string     `json:"login"`
	DisplayName *string    `json:"name"`
	Bio         *string    `json:"bio"`
	Company     *string    `json:"company"`
	Location    *string    `json:"location"`
	Blog        *string    `json:"blog"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	PublicRepos int        `json:"public_repos"`
	AvatarURL   string     `json:"avatar_url"`
	HTMLURL     string     `json:"html_url"`
	CreatedAt   time.Time  `json:"created_at"`
	Stats       *RepoStats `json:"stats,omitempty"`
}

// RepoStats summarizes the most recently updated public repositories of a user
type RepoStats struct {
	Repositories    int            `json:"repositories"`
	TotalStars      int            `json:"total_stars"`
	PrimaryLanguage string         `json:"primary_language"`
	Languages       map[string]int `json:"languages"`
}

// UnknownValue is shown for fields GitHub did not provide
const UnknownValue = "Unknown"

// HasDisplayName reports whether the user set a name that differs from the login
func (p *Profile) HasDisplayName() bool {
	return p.DisplayName != nil && strings.TrimSpace(*p.DisplayName) != "" && *p.DisplayName != p.Login
}

// JoinedYear returns the year the account was created
func (p *Profile) JoinedYear() string {
	if p.CreatedAt.IsZero() {
		return UnknownValue
	}
	return strconv.Itoa(p.CreatedAt.Year())
}

// OptionalString returns the trimmed value of s, or an empty string for nil
func OptionalString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
