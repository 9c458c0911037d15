package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hostAsset resolves the artifact for the platform running the tests.
func hostAsset(t *testing.T) platformAsset {
	t.Helper()
	asset, err := NewChecker().assetFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(t, err)
	return asset
}

// buildArchive packs the binary the way the release for this platform would.
func buildArchive(t *testing.T, asset platformAsset, content []byte) []byte {
	t.Helper()
	if strings.HasSuffix(asset.archive, ".zip") {
		return buildZip(t, asset.binary, content)
	}
	return buildTarGz(t, asset.binary, content)
}

// releaseServer serves a v2.0.0 release with the given archive and manifest.
func releaseServer(t *testing.T, asset platformAsset, archive []byte, manifest string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/abhisek/rhythmiz/releases/latest":
			_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":"https://example.com/v2.0.0"}`))
		case "/abhisek/rhythmiz/releases/download/v2.0.0/" + asset.archive:
			_, _ = w.Write(archive)
		case "/abhisek/rhythmiz/releases/download/v2.0.0/checksums.txt":
			_, _ = w.Write([]byte(manifest))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpdate(t *testing.T) {
	asset := hostAsset(t)
	content := []byte("new-rhythmiz-binary")
	archive := buildArchive(t, asset, content)
	sum := sha256.Sum256(archive)
	manifest := hex.EncodeToString(sum[:]) + "  " + asset.archive + "\n"

	t.Run("replaces the binary", func(t *testing.T) {
		dir := t.TempDir()
		execPath := filepath.Join(dir, asset.binary)
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0755))

		server := releaseServer(t, asset, archive, manifest)
		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
			withExecPath(func() (string, error) { return execPath, nil }),
		)

		var stages []Stage
		err := checker.Update(context.Background(), "v1.0.0", func(p Progress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageInstall, StageDone}, stages)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), "(devel)", nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		server := releaseServer(t, asset, archive, manifest)
		checker := NewChecker(WithBaseURL(server.URL))

		err := checker.Update(context.Background(), "v2.0.0", nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		badManifest := strings.Repeat("0", 64) + "  " + asset.archive + "\n"
		server := releaseServer(t, asset, archive, badManifest)
		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
		)

		err := checker.Update(context.Background(), "v1.0.0", nil)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("manifest missing entry", func(t *testing.T) {
		server := releaseServer(t, asset, archive, "")
		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
		)

		err := checker.Update(context.Background(), "v1.0.0", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no entry")
	})

	t.Run("download failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/abhisek/rhythmiz/releases/latest" {
				_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","html_url":""}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(server.Close)
		checker := NewChecker(
			WithBaseURL(server.URL),
			WithDownloadBaseURL(server.URL),
		)

		err := checker.Update(context.Background(), "v1.0.0", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func TestInstall(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "rhythmiz")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0755))

	require.NoError(t, install([]byte("new-binary-content"), target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-binary-content"), got)

	// Mode carried over from the replaced binary, no staging leftovers.
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(dir, ".rhythmiz.new-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
