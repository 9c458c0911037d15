package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// platformAsset names the release artifact for one OS/arch pair and the
// executable packed inside it.
type platformAsset struct {
	archive string
	binary  string
}

// assetFor maps a platform to its published artifact. Archive and binary
// names derive from the repository name, matching the goreleaser layout.
func (c *Checker) assetFor(goos, goarch string) (platformAsset, error) {
	switch goos {
	case "darwin":
		// Universal binary, one archive for every arch.
		return platformAsset{archive: c.repo + "_Darwin_all.tar.gz", binary: c.repo}, nil
	case "linux":
		arch, err := releaseArch(goarch)
		if err != nil {
			return platformAsset{}, err
		}
		return platformAsset{
			archive: fmt.Sprintf("%s_Linux_%s.tar.gz", c.repo, arch),
			binary:  c.repo,
		}, nil
	case "windows":
		arch, err := releaseArch(goarch)
		if err != nil {
			return platformAsset{}, err
		}
		return platformAsset{
			archive: fmt.Sprintf("%s_Windows_%s.zip", c.repo, arch),
			binary:  c.repo + ".exe",
		}, nil
	default:
		return platformAsset{}, fmt.Errorf("no release artifact for %s/%s", goos, goarch)
	}
}

func releaseArch(goarch string) (string, error) {
	switch goarch {
	case "amd64":
		return "x86_64", nil
	case "arm64":
		return "arm64", nil
	case "386":
		return "i386", nil
	}
	return "", fmt.Errorf("no release artifact for architecture %s", goarch)
}

// checksumFor scans a goreleaser checksums.txt manifest for the named file.
func checksumFor(manifest []byte, name string) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(manifest))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && fields[1] == name {
			return fields[0], true
		}
	}
	return "", false
}

// extract pulls the executable out of the downloaded archive.
func (a platformAsset) extract(data []byte) ([]byte, error) {
	if strings.HasSuffix(a.archive, ".zip") {
		return a.extractZip(data)
	}
	return a.extractTarGz(data)
}

func (a platformAsset) extractTarGz(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%s not present in %s", a.binary, a.archive)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == a.binary {
			return io.ReadAll(tr)
		}
	}
}

func (a platformAsset) extractZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != a.binary {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not present in %s", a.binary, a.archive)
}
