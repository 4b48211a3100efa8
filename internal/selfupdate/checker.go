// Package selfupdate checks GitHub releases for newer versions and
// replaces the running binary in place.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultOwner           = "alshwehdya-source"
	defaultRepo            = "quiz"
	defaultBaseURL         = "https://api.github.com"
	defaultDownloadBaseURL = "https://github.com"
)

// Checker queries GitHub releases for the project.
type Checker struct {
	owner           string
	repo            string
	baseURL         string
	downloadBaseURL string
	client          *http.Client
	execPath        func() (string, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithBaseURL overrides the GitHub API base URL.
func WithBaseURL(u string) Option {
	return func(c *Checker) { c.baseURL = u }
}

// WithDownloadBaseURL overrides the release download base URL.
func WithDownloadBaseURL(u string) Option {
	return func(c *Checker) { c.downloadBaseURL = u }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// withExecPath overrides executable path resolution, for tests.
func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

// NewChecker creates a Checker with defaults for the project repo.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		owner:           defaultOwner,
		repo:            defaultRepo,
		baseURL:         defaultBaseURL,
		downloadBaseURL: defaultDownloadBaseURL,
		client:          &http.Client{Timeout: 30 * time.Second},
		execPath:        os.Executable,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckInput is the input for an update check.
type CheckInput struct {
	Version string
}

// CheckResult describes the latest release relative to the running version.
type CheckResult struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check queries the latest release and compares it with the running
// version. Development builds always report no update available.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("release has no tag name")
	}

	result := &CheckResult{
		CurrentVersion: input.Version,
		LatestVersion:  release.TagName,
		ReleaseURL:     release.HTMLURL,
	}

	// Dev builds aren't comparable to release tags.
	if input.Version == "(devel)" {
		return result, nil
	}

	current := canonical(input.Version)
	latest := canonical(release.TagName)
	if semver.IsValid(current) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}

	return result, nil
}

// canonical ensures the "v" prefix semver.Compare requires.
func canonical(v string) string {
	if v == "" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}
