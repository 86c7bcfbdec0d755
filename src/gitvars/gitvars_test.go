package gitvars

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Docs Bot", Email: "docs@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	first := commitFile(t, repo, dir, "README.md", "# widgets\n")
	_, err = repo.CreateTag("v1.2.0", first, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.10.0-rc.1", first, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("nightly", first, nil)
	require.NoError(t, err)
	head := commitFile(t, repo, dir, "CHANGELOG.md", "- things\n")

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	vars, err := Detect(sub)
	require.NoError(t, err)

	ref, err := repo.Head()
	require.NoError(t, err)

	assert.Equal(t, ref.Name().Short(), vars[VarBranch])
	assert.Equal(t, head.String()[:7], vars[VarSHA])
	assert.Equal(t, "acme", vars[VarOwner])
	assert.Equal(t, "widgets", vars[VarRepo])
	assert.Equal(t, "https://github.com/acme/widgets", vars[VarProjectURL])
	assert.Equal(t, "1.10.0-rc.1", vars[VarVersion])
}

func TestDetect_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	vars, err := Detect(dir)
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestDetect_NotARepository(t *testing.T) {
	_, err := Detect(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrRepositoryNotExists)
}

func TestSplitRemote(t *testing.T) {
	tests := []struct {
		remote      string
		owner, name string
	}{
		{"git@github.com:acme/widgets.git", "acme", "widgets"},
		{"https://github.com/acme/widgets.git", "acme", "widgets"},
		{"https://gitlab.example.com/group/sub/widgets", "group/sub", "widgets"},
		{"ssh://git@gitlab.example.com:2222/group/widgets.git", "group", "widgets"},
		{"https://example.com/", "", ""},
		{"/srv/git/widgets.git", "", "widgets"},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			owner, name := splitRemote(tt.remote)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestRemoteToHTTPS(t *testing.T) {
	assert.Equal(t, "https://github.com/acme/widgets", remoteToHTTPS("git@github.com:acme/widgets.git"))
	assert.Equal(t, "https://github.com/acme/widgets", remoteToHTTPS("https://github.com/acme/widgets.git"))
	assert.Equal(t, "https://gitlab.example.com/group/widgets", remoteToHTTPS("ssh://git@gitlab.example.com:2222/group/widgets.git"))
}
