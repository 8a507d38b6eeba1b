package dictionary

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/japaniel/pastphon/pkg/logging"
)

// ErrNoSource is returned when the dictionary file is missing and no
// download URL is configured.
var ErrNoSource = errors.New("dictionary file missing and no download url configured")

// maxDownloadSize bounds the (decompressed) dictionary download.
const maxDownloadSize = 64 * 1024 * 1024

// EnsureDictionary checks if the dictionary exists at path. If not, it
// downloads it from url, transparently decompressing ".gz" sources.
func EnsureDictionary(ctx context.Context, path, url string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if url == "" {
		return fmt.Errorf("%s: %w", path, ErrNoSource)
	}

	log := logging.WithComponent("downloader")
	log.Info().Str("path", path).Str("url", url).Msg("dictionary not found, downloading")

	start := time.Now()
	n, err := download(ctx, url, path)
	if err != nil {
		return fmt.Errorf("download dictionary: %w", err)
	}
	log.Info().Int64("bytes", n).Dur("took", time.Since(start)).Msg("dictionary downloaded")
	return nil
}

func download(ctx context.Context, url, destPath string) (int64, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "pastphon-cli")

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(url, ".gz") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return 0, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		body = gzReader
	}

	// Write to a temp file next to the destination so a failed download
	// never leaves a truncated dictionary behind.
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".dictionary-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(body, maxDownloadSize+1))
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write to file: %w", err)
	}
	if n > maxDownloadSize {
		tmp.Close()
		return 0, fmt.Errorf("dictionary exceeds %d bytes", maxDownloadSize)
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return 0, err
	}
	return n, nil
}
