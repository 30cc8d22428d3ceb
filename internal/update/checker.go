package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

// DefaultEndpoint is the latest-release API URL for the timer repository.
const DefaultEndpoint = "https://api.github.com/repos/Y-ASLant/timer/releases/latest"

// Error variables for specific check failures. Returned errors wrap one of
// these and carry a message meant to be shown as-is.
var (
	ErrNetwork        = errors.New("network request failed, the app keeps working offline")
	ErrRateLimited    = errors.New("GitHub API access is restricted")
	ErrTokenRejected  = errors.New("the GitHub token may be invalid or expired")
	ErrNoRelease      = errors.New("release not found, the repository may not exist or has no published releases yet")
	ErrBadStatus      = errors.New("GitHub API returned an error")
	ErrInvalidVersion = errors.New("invalid version format")
)

// Checker compares the running version against the latest GitHub release.
type Checker struct {
	endpoint   string
	current    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient replaces the default 10 second client.
func WithHTTPClient(client *http.Client) CheckerOption {
	return func(c *Checker) {
		c.httpClient = client
	}
}

// WithEndpoint points the checker at a different latest-release URL.
func WithEndpoint(endpoint string) CheckerOption {
	return func(c *Checker) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithToken sets the token used when the caller does not supply one.
func WithToken(token string) CheckerOption {
	return func(c *Checker) {
		c.token = strings.TrimSpace(token)
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(l *zap.Logger) CheckerOption {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChecker creates a checker for the given running version.
func NewChecker(currentVersion string, opts ...CheckerOption) *Checker {
	c := &Checker{
		endpoint:   DefaultEndpoint,
		current:    currentVersion,
		httpClient: NewHTTPClient(CheckTimeout),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check fetches the latest release. token overrides the configured token when
// non-empty.
func (c *Checker) Check(ctx context.Context, token string) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		token = c.token
	}

	release, err := c.fetchLatestRelease(ctx, token)
	if err != nil {
		c.logger.Info("update check failed", zap.Error(err))
		return nil, err
	}

	latestStr := trimVersionPrefix(release.TagName)
	current, err := semver.StrictNewVersion(c.current)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse current version %q: %w", ErrInvalidVersion, c.current, err)
	}
	latest, err := semver.StrictNewVersion(latestStr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse latest version %q, the tag may not follow semantic versioning: %w", ErrInvalidVersion, release.TagName, err)
	}

	downloadURL, ok := SelectDownloadURL(release.Assets)
	if !ok {
		downloadURL = release.HTMLURL
	}

	res := &Result{
		HasUpdate:      latest.GreaterThan(current),
		CurrentVersion: c.current,
		LatestVersion:  latestStr,
		DownloadURL:    downloadURL,
		ReleaseNotes:   release.Body,
	}
	c.logger.Info("update check complete",
		zap.String("current", res.CurrentVersion),
		zap.String("latest", res.LatestVersion),
		zap.Bool("hasUpdate", res.HasUpdate))
	return res, nil
}

func (c *Checker) fetchLatestRelease(ctx context.Context, token string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp.StatusCode, token != "")
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to parse release information: %w", err)
	}
	return &release, nil
}

func (c *Checker) statusError(code int, hadToken bool) error {
	switch code {
	case http.StatusForbidden:
		if hadToken {
			return fmt.Errorf("%w (403), please update the token and try again", ErrTokenRejected)
		}
		if page := releasesPage(c.endpoint); page != "" {
			return fmt.Errorf("%w (403). Turn off your VPN or proxy and try again, or download the latest version from %s", ErrRateLimited, page)
		}
		return fmt.Errorf("%w (403). Turn off your VPN or proxy and try again", ErrRateLimited)
	case http.StatusNotFound:
		return ErrNoRelease
	default:
		return fmt.Errorf("%w (%d), please try again later", ErrBadStatus, code)
	}
}

// releasesPage turns .../repos/{owner}/{repo}/releases/latest into the
// human releases page on github.com.
func releasesPage(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "repos" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/releases", parts[1], parts[2])
}
