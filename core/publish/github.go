package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// GitHubTarget publishes to a repository through the contents API, the way a
// static site hosted from a git repository is updated. The blob SHA is the
// revision token.
type GitHubTarget struct {
	client  *github.Client
	owner   string
	repo    string
	branch  string
	timeout time.Duration
}

var _ Target = (*GitHubTarget)(nil)

// GitHubOption configures a GitHubTarget.
type GitHubOption func(*GitHubTarget) error

// WithGitHubBaseURL points the client at a different API root.
func WithGitHubBaseURL(raw string) GitHubOption {
	return func(t *GitHubTarget) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse github base url: %w", err)
		}
		t.client.BaseURL = u
		return nil
	}
}

// WithGitHubBranch commits to branch instead of the repository default.
func WithGitHubBranch(branch string) GitHubOption {
	return func(t *GitHubTarget) error {
		t.branch = strings.TrimSpace(branch)
		return nil
	}
}

// NewGitHubTarget creates a target for repository "owner/name".
func NewGitHubTarget(token, repository string, timeout time.Duration, opts ...GitHubOption) (*GitHubTarget, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(repository), "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github repository must be owner/name, got %q", repository)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := github.NewClient(&http.Client{Timeout: timeout})
	if token = strings.TrimSpace(token); token != "" {
		client = client.WithAuthToken(token)
	}

	t := &GitHubTarget{client: client, owner: owner, repo: repo, timeout: timeout}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Name returns the backend name.
func (t *GitHubTarget) Name() string {
	return "github"
}

// Read fetches a file and its blob SHA.
func (t *GitHubTarget) Read(ctx context.Context, path string) (*Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	file, _, _, err := t.client.Repositories.GetContents(ctx, t.owner, t.repo, path, t.getOptions())
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &Artifact{Path: path, Content: []byte(content), Revision: file.GetSHA()}, nil
}

// Write creates or updates a file. The API rejects a stale SHA with 409 and a
// missing SHA for an existing file with 422; both surface as ErrConflict.
func (t *GitHubTarget) Write(ctx context.Context, path string, content []byte, expectedRevision string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Publish " + path),
		Content: content,
	}
	if t.branch != "" {
		opts.Branch = github.String(t.branch)
	}

	var (
		resp *github.RepositoryContentResponse
		err  error
	)
	if expectedRevision == "" {
		resp, _, err = t.client.Repositories.CreateFile(ctx, t.owner, t.repo, path, opts)
	} else {
		opts.SHA = github.String(expectedRevision)
		resp, _, err = t.client.Repositories.UpdateFile(ctx, t.owner, t.repo, path, opts)
	}
	if err != nil {
		switch statusOf(err) {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return "", &ConflictError{Path: path, Expected: expectedRevision, Err: err}
		}
		return "", fmt.Errorf("failed to put %s: %w", path, err)
	}

	return resp.GetContent().GetSHA(), nil
}

// ListKeys lists the files directly inside the prefix directory. A missing
// directory yields an empty set.
func (t *GitHubTarget) ListKeys(ctx context.Context, prefix string) (map[string]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	dir := strings.Trim(prefix, "/")
	keys := make(map[string]struct{})

	_, entries, _, err := t.client.Repositories.GetContents(ctx, t.owner, t.repo, dir, t.getOptions())
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return keys, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		if key, ok := KeyFromObject(dir+"/"+entry.GetName(), dir); ok {
			keys[key] = struct{}{}
		}
	}

	return keys, nil
}

func (t *GitHubTarget) getOptions() *github.RepositoryContentGetOptions {
	if t.branch == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: t.branch}
}

func statusOf(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}
