package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
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

const binaryName = "quiz"

type UpdateInput struct {
	CurrentVersion string
	// TargetVersion pins a specific release tag. Empty means latest.
	TargetVersion string
}

// UpdateProgress is emitted at each stage of the update so callers can
// show progress to the user.
type UpdateProgress struct {
	Stage   string
	Message string
}

// Update replaces the running binary with a release build. The archive
// checksum is verified against the release's checksums.txt before the
// binary is swapped in.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{Stage: "check", Message: "Checking for latest version..."})
		result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	asset, err := assetName()
	if err != nil {
		return err
	}

	release := fmt.Sprintf("%s/%s/%s/releases/download/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag)

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	archive, err := c.downloadFile(ctx, release+"/"+asset)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: "verify", Message: "Verifying checksum..."})
	sums, err := c.downloadFile(ctx, release+"/checksums.txt")
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}

	want, ok := parseChecksums(sums)[asset]
	if !ok {
		return fmt.Errorf("no checksum found for %s in checksums.txt", asset)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "extract", Message: "Extracting binary..."})
	binary, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Applying update..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	binaryHash := sha256.Sum256(binary)
	if err := applyUpdate(binary, target, binaryHash[:]); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

func assetName() (string, error) {
	return assetNameFor(runtime.GOOS, runtime.GOARCH)
}

// assetNameFor maps a GOOS/GOARCH pair onto the release asset naming
// scheme used by the goreleaser config. Darwin ships a universal binary.
func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return binaryName + "_Darwin_all.tar.gz", nil
	}

	arch, ok := map[string]string{
		"amd64": "x86_64",
		"arm64": "arm64",
		"386":   "i386",
	}[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}

	switch goos {
	case "linux":
		return fmt.Sprintf("%s_Linux_%s.tar.gz", binaryName, arch), nil
	case "windows":
		return fmt.Sprintf("%s_Windows_%s.zip", binaryName, arch), nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}

func (c *Checker) downloadFile(ctx context.Context, url string) ([]byte, error) {
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

// parseChecksums reads a goreleaser checksums.txt, "hexdigest  filename"
// per line. Unparseable lines are skipped.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 {
			sums[fields[1]] = fields[0]
		}
	}
	return sums
}

func verifyChecksum(data []byte, expectedHex string) error {
	h := sha256.Sum256(data)
	if got := hex.EncodeToString(h[:]); got != expectedHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, expectedHex, got)
	}
	return nil
}

func extractBinary(archiveData []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return extractFromZip(archiveData, binaryName+".exe")
	}
	return extractFromTarGz(archiveData, binaryName)
}

func extractFromTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

func extractFromZip(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// applyUpdate stages the new binary in a temp dir next to the target so
// the final rename stays on one filesystem, re-verifies the staged bytes,
// then swaps it in preserving the original file mode.
func applyUpdate(binaryData []byte, targetPath string, expectedHash []byte) error {
	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	stageDir, err := os.MkdirTemp(filepath.Dir(targetPath), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(stageDir) }()

	staged := filepath.Join(stageDir, binaryName+"-new")
	if err := os.WriteFile(staged, binaryData, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	written, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	writtenHash := sha256.Sum256(written)
	if !bytes.Equal(writtenHash[:], expectedHash) {
		return fmt.Errorf("%w: temp file was tampered with after write", ErrChecksum)
	}

	if err := os.Rename(staged, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	if err := os.Chmod(targetPath, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}
