// Package display lays out a profile card: the rendered avatar on the left,
// the header and info rows on the right.
package display

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/alimgiray/gitch/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

const (
	// avatarGap is the number of cells between the avatar and the info block
	avatarGap = 4

	// labelWidth is the padded width of the row labels
	labelWidth = 14

	// ruleWidth is the width of the rule under the header
	ruleWidth = 40

	// MinInfoWidth is the narrowest terminal space the info block needs
	MinInfoWidth = 40

	blogMaxWidth = 25

	notSpecified = "Not specified"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// ANSI palette
var (
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorWhite   = lipgloss.Color("7")
)

// InfoItem is one row of the info block
type InfoItem struct {
	Icon  string
	Label string
	Value string
	Color lipgloss.Color
}

type Options struct {
	// AvatarWidth is the width in cells reserved for the avatar
	AvatarWidth int

	// TerminalWidth is the width of the output terminal, zero when unknown.
	// The avatar is dropped when the terminal cannot fit it beside the info block.
	TerminalWidth int

	NoColor bool
}

type styles struct {
	name  lipgloss.Style
	at    lipgloss.Style
	host  lipgloss.Style
	rule  lipgloss.Style
	label lipgloss.Style
	icon  func(lipgloss.Color) lipgloss.Style
}

// Composer builds the card and writes it to its output
type Composer struct {
	out     io.Writer
	options Options
	styles  styles
}

func NewComposer(out io.Writer, options Options) *Composer {
	renderer := lipgloss.NewRenderer(out)
	if options.NoColor {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Composer{
		out:     out,
		options: options,
		styles: styles{
			name:  renderer.NewStyle().Bold(true).Foreground(colorGreen),
			at:    renderer.NewStyle().Foreground(colorWhite),
			host:  renderer.NewStyle().Bold(true).Foreground(colorBlue),
			rule:  renderer.NewStyle().Faint(true),
			label: renderer.NewStyle().Bold(true).Foreground(colorWhite),
			icon: func(color lipgloss.Color) lipgloss.Style {
				return renderer.NewStyle().Foreground(color)
			},
		},
	}
}

// Column returns the cell at which the info block starts when an avatar is shown
func (c *Composer) Column() int {
	return c.options.AvatarWidth + avatarGap
}

// FitsAvatar reports whether the terminal is wide enough to show the avatar
func (c *Composer) FitsAvatar() bool {
	return c.options.TerminalWidth <= 0 || c.options.TerminalWidth >= c.Column()+MinInfoWidth
}

// Lines returns the card as output lines. avatar may be empty, in which case
// only the text block is produced.
func (c *Composer) Lines(profile *models.Profile, avatar []string) []string {
	text := []string{
		c.header(profile),
		c.styles.rule.Render(strings.Repeat("─", ruleWidth)),
	}
	for _, item := range InfoItems(profile) {
		text = append(text, c.row(item))
	}

	if !c.FitsAvatar() {
		avatar = nil
	}
	return Zip(avatar, text, c.Column())
}

// Write writes the card to the composer's output
func (c *Composer) Write(profile *models.Profile, avatar []string) error {
	var b strings.Builder
	for _, line := range c.Lines(profile, avatar) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(c.out, b.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (c *Composer) header(profile *models.Profile) string {
	login := sanitize(profile.Login)
	title := login
	if profile.HasDisplayName() {
		if name := sanitize(*profile.DisplayName); name != "" && name != login {
			title = fmt.Sprintf("%s (%s)", name, login)
		}
	}
	return c.styles.name.Render(title) + c.styles.at.Render("@") + c.styles.host.Render("github")
}

func (c *Composer) row(item InfoItem) string {
	label := c.styles.label.Render(item.Label)
	if pad := labelWidth - ansi.StringWidth(item.Label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	return c.styles.icon(item.Color).Render(item.Icon) + " " + label + " " + item.Value
}

// InfoItems returns the info rows shown for a profile, in display order
func InfoItems(profile *models.Profile) []InfoItem {
	items := []InfoItem{
		{Icon: "🆔", Label: "User ID", Value: fmt.Sprintf("%d", profile.ID), Color: colorRed},
		{Icon: "👤", Label: "Username", Value: sanitize(profile.Login), Color: colorGreen},
		{Icon: "🏢", Label: "Company", Value: orNotSpecified(profile.Company), Color: colorYellow},
		{Icon: "📍", Label: "Location", Value: orNotSpecified(profile.Location), Color: colorBlue},
	}

	if profile.Stats != nil {
		items = append(items, InfoItem{Icon: "💻", Label: "Primary Lang", Value: sanitize(profile.Stats.PrimaryLanguage), Color: colorMagenta})
	}

	items = append(items,
		InfoItem{Icon: "📚", Label: "Repositories", Value: FormatNumber(profile.PublicRepos), Color: colorCyan},
		InfoItem{Icon: "👥", Label: "Followers", Value: FormatNumber(profile.Followers), Color: colorRed},
		InfoItem{Icon: "👤", Label: "Following", Value: FormatNumber(profile.Following), Color: colorGreen},
	)

	if profile.Stats != nil {
		items = append(items, InfoItem{Icon: "⭐", Label: "Total Stars", Value: FormatNumber(profile.Stats.TotalStars), Color: colorYellow})
	}

	items = append(items, InfoItem{Icon: "🗓️", Label: "Joined", Value: profile.JoinedYear(), Color: colorMagenta})

	if bio := sanitize(models.OptionalString(profile.Bio)); bio != "" {
		items = append(items, InfoItem{Icon: "💬", Label: "Bio", Value: bio, Color: colorCyan})
	}

	if blog := sanitize(models.OptionalString(profile.Blog)); blog != "" {
		items = append(items, InfoItem{Icon: "🌐", Label: "Website", Value: Truncate(blog, blogMaxWidth), Color: colorBlue})
	}

	return items
}

// sanitize makes text from the API safe to print on one row: line breaks and
// tabs become spaces, escape sequences and other control characters are dropped
func sanitize(s string) string {
	s = ansi.Strip(lineBreaks.Replace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

func orNotSpecified(value *string) string {
	if v := sanitize(models.OptionalString(value)); v != "" {
		return v
	}
	return notSpecified
}
