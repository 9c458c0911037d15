package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// Stage identifies a step of the update pipeline.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageInstall  Stage = "install"
	StageDone     Stage = "done"
)

// Progress reports pipeline advancement to the caller.
type Progress struct {
	Stage   Stage
	Message string
}

// ProgressFunc receives progress reports during Update.
type ProgressFunc func(Progress)

// Update replaces the running binary with the latest published release.
// Returns ErrAlreadyLatest when nothing newer exists and ErrDevBuild for
// unversioned builds, which have no release to compare against.
func (c *Checker) Update(ctx context.Context, currentVersion string, report ProgressFunc) error {
	if report == nil {
		report = func(Progress) {}
	}
	if currentVersion == "" || currentVersion == "(devel)" {
		return ErrDevBuild
	}

	report(Progress{Stage: StageCheck, Message: "Checking for the latest release..."})
	result, err := c.Check(ctx, &CheckInput{Version: currentVersion})
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if !result.UpdateAvailable {
		return ErrAlreadyLatest
	}
	tag := result.LatestVersion

	asset, err := c.assetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	archive, err := c.fetchVerified(ctx, tag, asset, report)
	if err != nil {
		return err
	}

	report(Progress{Stage: StageInstall, Message: "Installing " + asset.binary + "..."})
	binary, err := asset.extract(archive)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if err := install(binary, target); err != nil {
		return err
	}

	report(Progress{Stage: StageDone, Message: "Updated to " + tag})
	return nil
}

// fetchVerified downloads the release archive and refuses it unless its
// digest matches the entry in the release checksum manifest.
func (c *Checker) fetchVerified(ctx context.Context, tag string, asset platformAsset, report ProgressFunc) ([]byte, error) {
	base := strings.TrimRight(c.downloadBaseURL, "/")
	root := fmt.Sprintf("%s/%s/%s/releases/download/%s", base, c.owner, c.repo, tag)

	report(Progress{Stage: StageDownload, Message: fmt.Sprintf("Downloading %s...", asset.archive)})
	archive, err := c.get(ctx, root+"/"+asset.archive)
	if err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}

	report(Progress{Stage: StageVerify, Message: "Verifying checksum..."})
	manifest, err := c.get(ctx, root+"/checksums.txt")
	if err != nil {
		return nil, fmt.Errorf("download checksums: %w", err)
	}
	want, ok := checksumFor(manifest, asset.archive)
	if !ok {
		return nil, fmt.Errorf("checksums.txt has no entry for %s", asset.archive)
	}
	sum := sha256.Sum256(archive)
	if got := hex.EncodeToString(sum[:]); got != want {
		return nil, fmt.Errorf("%w for %s: want %s, got %s", ErrChecksum, asset.archive, want, got)
	}
	return archive, nil
}

func (c *Checker) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// install atomically swaps the target executable for the new binary. The
// replacement is staged next to the target so the rename stays on one
// filesystem, and it inherits the original file mode before the swap.
func install(binary []byte, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat executable: %w", err)
	}

	staged, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".new-*")
	if err != nil {
		return fmt.Errorf("stage new binary: %w", err)
	}
	name := staged.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := staged.Write(binary); err != nil {
		_ = staged.Close()
		return fmt.Errorf("write new binary: %w", err)
	}
	if err := staged.Close(); err != nil {
		return fmt.Errorf("write new binary: %w", err)
	}
	if err := os.Chmod(name, info.Mode()); err != nil {
		return fmt.Errorf("set binary mode: %w", err)
	}
	if err := os.Rename(name, target); err != nil {
		return fmt.Errorf("replace executable: %w", err)
	}
	return nil
}
