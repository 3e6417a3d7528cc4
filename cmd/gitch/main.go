// gitch prints a GitHub user's profile next to their avatar rendered as
// terminal art, in the style of neofetch.
//
// Usage:
//
//	gitch [flags] [username]
//
// Without a username a random user is picked from the public events feed.
// GITHUB_TOKEN raises the API rate limit. The avatar is drawn with chafa
// when it is installed; otherwise only the text is printed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alimgiray/gitch/internal/display"
	"github.com/alimgiray/gitch/internal/handlers"
	"github.com/alimgiray/gitch/internal/renderer"
	"github.com/alimgiray/gitch/internal/services"
	"github.com/alimgiray/gitch/pkg/config"
	"github.com/alimgiray/gitch/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		size        string
		noAvatar    bool
		noColor     bool
		skipRepos   bool
		verbose     bool
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("gitch", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&size, "size", "s", "", "avatar size in cells as WIDTHxHEIGHT (default from AVATAR_WIDTH/AVATAR_HEIGHT, 24x12)")
	flagSet.BoolVar(&noAvatar, "no-avatar", false, "print the profile without the avatar")
	flagSet.BoolVar(&noColor, "no-color", false, "disable colored output")
	flagSet.BoolVar(&skipRepos, "skip-repos", false, "skip the repository summary (primary language, stars)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: gitch [flags] [username]\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if showVersion {
		fmt.Fprintf(stdout, "gitch %s\n", version)
		return exitOK
	}

	if flagSet.NArg() > 1 {
		fmt.Fprintf(stderr, "gitch: expected at most one username, got %d\n", flagSet.NArg())
		flagSet.Usage()
		return exitUsage
	}

	if err := config.Load(); err != nil {
		fmt.Fprintf(stderr, "gitch: failed to load config: %v\n", err)
		return exitFailure
	}
	cfg := config.AppConfig

	avatarWidth, avatarHeight := cfg.Avatar.Width, cfg.Avatar.Height
	if flagSet.Changed("size") {
		width, height, err := parseSize(size)
		if err != nil {
			fmt.Fprintf(stderr, "gitch: %v\n", err)
			return exitUsage
		}
		avatarWidth, avatarHeight = width, height
	}

	logLevel := cfg.Log.Level
	if verbose {
		logLevel = "debug"
	}
	logger.Init(logLevel, cfg.Log.Format, stderr)
	logger.AddDefaultFields(logrus.Fields{"run_id": uuid.NewString()})
	logger.Debugf("gitch %s starting", version)

	userAgent := "gitch/" + version
	githubService, err := services.NewGitHubService(cfg.GitHub, userAgent)
	if err != nil {
		fmt.Fprintf(stderr, "gitch: %v\n", err)
		return exitFailure
	}
	avatarService := services.NewAvatarService(time.Duration(cfg.Avatar.Timeout)*time.Second, userAgent)
	var renderOpts []renderer.ChafaOption
	if noColor {
		renderOpts = append(renderOpts, renderer.WithoutColor())
	}
	avatarRenderer := renderer.NewChafaRenderer(cfg.Renderer.Binary, time.Duration(cfg.Renderer.Timeout)*time.Second, renderOpts...)

	composer := display.NewComposer(stdout, display.Options{
		AvatarWidth:   avatarWidth,
		TerminalWidth: terminalWidth(stdout),
		NoColor:       noColor,
	})

	handler := handlers.NewProfileHandler(githubService, avatarService, avatarRenderer, composer, handlers.ProfileOptions{
		AvatarWidth:  avatarWidth,
		AvatarHeight: avatarHeight,
		NoAvatar:     noAvatar,
		SkipRepos:    skipRepos,
		HasToken:     cfg.GitHub.Token != "",
	})

	if err := handler.Show(ctx, flagSet.Arg(0)); err != nil {
		logger.WithError(err).Debug("Run failed")
		fmt.Fprintf(stderr, "gitch: %s\n", describeError(err))
		return exitFailure
	}

	return exitOK
}

// describeError turns pipeline errors into a message for the user. Not-found
// and network errors already read well and are printed as they are.
func describeError(err error) string {
	switch {
	case errors.Is(err, services.ErrRateLimited):
		return "GitHub API rate limit exceeded; set GITHUB_TOKEN to raise the limit"
	case errors.Is(err, services.ErrBadCredentials):
		return "GitHub rejected the token in GITHUB_TOKEN; check that it is valid"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return err.Error()
	}
}

// parseSize parses a WIDTHxHEIGHT cell size
func parseSize(value string) (int, int, error) {
	parts := strings.Split(strings.ToLower(value), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", value)
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width in size %q", value)
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height in size %q", value)
	}
	return width, height, nil
}

// terminalWidth returns the width of w when it is a terminal, zero otherwise
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
