// Package gitvars derives badge template variables from the git repository
// a documentation tree lives in, so badge paths can say
// "github/actions/workflow/status/${owner}/${repo}/ci.yml?branch=${branch}"
// without hardcoding either.
package gitvars

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Variable names produced by Detect.
const (
	VarBranch     = "branch"      // current branch short name
	VarSHA        = "sha"         // HEAD commit, 7 chars
	VarOwner      = "owner"       // remote namespace, e.g. "acme" or "group/subgroup"
	VarRepo       = "repo"        // remote repository name
	VarProjectURL = "project_url" // remote as an https URL
	VarVersion    = "version"     // highest semver tag, without a "v" prefix
)

// Detect opens the repository containing dir (searching parent directories)
// and returns whatever variables it can resolve. A directory outside any
// repository yields an error wrapping git.ErrRepositoryNotExists.
func Detect(dir string) (map[string]string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("gitvars: opening repository at %s: %w", dir, err)
	}

	vars := map[string]string{}

	head, err := repo.Head()
	switch {
	case err == nil:
		if head.Name().IsBranch() {
			vars[VarBranch] = head.Name().Short()
		}
		vars[VarSHA] = head.Hash().String()[:7]
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: no commits yet.
	default:
		return nil, fmt.Errorf("gitvars: resolving HEAD: %w", err)
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			owner, name := splitRemote(urls[0])
			if name != "" {
				vars[VarRepo] = name
			}
			if owner != "" {
				vars[VarOwner] = owner
			}
			vars[VarProjectURL] = remoteToHTTPS(urls[0])
		}
	}

	if v, err := latestVersion(repo); err != nil {
		return nil, err
	} else if v != nil {
		vars[VarVersion] = v.String()
	}

	return vars, nil
}

// latestVersion returns the highest tag that parses as semver, or nil.
func latestVersion(repo *git.Repository) (*semver.Version, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("gitvars: listing tags: %w", err)
	}

	var best *semver.Version
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		v, err := semver.NewVersion(ref.Name().Short())
		if err != nil {
			return nil // not a version tag
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gitvars: walking tags: %w", err)
	}
	return best, nil
}

// splitRemote extracts the namespace and repository name from a git remote URL.
// Handles SSH (git@host:org/repo.git), ssh:// and HTTPS forms.
func splitRemote(remote string) (owner, name string) {
	p := remotePath(remote)
	if p == "" {
		return "", ""
	}
	if idx := strings.LastIndex(p, "/"); idx != -1 {
		return p[:idx], p[idx+1:]
	}
	return "", p
}

// remotePath returns the repository path of a remote, without host or ".git".
func remotePath(remote string) string {
	remote = strings.TrimSuffix(strings.TrimSpace(remote), "/")
	remote = strings.TrimSuffix(remote, ".git")

	if idx := strings.Index(remote, "://"); idx != -1 {
		rest := remote[idx+3:]
		slash := strings.Index(rest, "/")
		if slash == -1 {
			return ""
		}
		return strings.Trim(rest[slash+1:], "/")
	}

	// SCP-like: git@host:org/repo
	if idx := strings.Index(remote, ":"); idx != -1 {
		return strings.Trim(remote[idx+1:], "/")
	}

	// Local path: use the last component only.
	if idx := strings.LastIndex(remote, "/"); idx != -1 {
		return remote[idx+1:]
	}
	return remote
}

// remoteToHTTPS converts a git remote URL to HTTPS format for display.
// SSH remotes (git@host:org/repo.git) become https://host/org/repo.
// HTTPS remotes pass through with .git stripped.
func remoteToHTTPS(remote string) string {
	remote = strings.TrimSuffix(strings.TrimSpace(remote), ".git")

	if strings.HasPrefix(remote, "https://") || strings.HasPrefix(remote, "http://") {
		return remote
	}

	if strings.HasPrefix(remote, "ssh://") {
		rest := strings.TrimPrefix(remote, "ssh://")
		if at := strings.Index(rest, "@"); at != -1 {
			rest = rest[at+1:]
		}
		host, p, _ := strings.Cut(rest, "/")
		host, _, _ = strings.Cut(host, ":") // drop the ssh port
		return "https://" + host + "/" + p
	}

	// SSH: git@host:org/repo → https://host/org/repo
	if idx := strings.Index(remote, "@"); idx != -1 {
		rest := remote[idx+1:]
		rest = strings.Replace(rest, ":", "/", 1)
		return "https://" + rest
	}

	return remote
}
