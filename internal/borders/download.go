package borders

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sworrl/WanderMage-sub002/internal/fetcher"
)

const (
	httpBase = "https://www2.census.gov/geo/tiger"
	ftpBase  = "ftp://ftp2.census.gov/geo/tiger"

	downloadTimeout = 5 * time.Minute
)

// ArchiveName returns the cartographic boundary ZIP name for a vintage and
// detail level ("500k", "5m", "20m").
func ArchiveName(year int, detail string) string {
	return fmt.Sprintf("cb_%d_us_state_%s.zip", year, detail)
}

// DownloadURL returns the HTTPS URL for the states archive.
func DownloadURL(year int, detail string) string {
	return fmt.Sprintf("%s/GENZ%d/shp/%s", httpBase, year, ArchiveName(year, detail))
}

// FTPURL returns the anonymous-FTP mirror of the same archive.
func FTPURL(year int, detail string) string {
	return fmt.Sprintf("%s/GENZ%d/shp/%s", ftpBase, year, ArchiveName(year, detail))
}

// FetchArchive downloads the boundary ZIP into destDir, reusing and
// revalidating a cached copy when one exists, then extracts it and returns
// the path to the .shp file. ftp:// URLs go through the FTP fetcher.
func FetchArchive(ctx context.Context, rawURL, destDir string) (string, error) {
	log := zap.L().With(
		zap.String("component", "borders.download"),
		zap.String("url", rawURL),
	)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "borders: create dest dir")
	}

	parts := strings.Split(rawURL, "/")
	zipName := parts[len(parts)-1]
	if zipName == "" {
		return "", eris.Errorf("borders: cannot derive archive name from %s", rawURL)
	}
	zipPath := filepath.Join(destDir, zipName)

	if info, err := os.Stat(zipPath); err == nil && info.Size() > 0 {
		refreshArchive(ctx, rawURL, zipPath, log)
	} else {
		log.Info("downloading boundary archive")
		if err := downloadArchive(ctx, rawURL, zipPath); err != nil {
			return "", eris.Wrap(err, "borders: download archive")
		}
	}

	extractDir := filepath.Join(destDir, strings.TrimSuffix(zipName, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "borders: create extract dir")
	}
	if _, err := fetcher.ExtractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrap(err, "borders: extract archive")
	}

	shpPath, err := findFileByExt(extractDir, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "borders: find .shp file")
	}
	return shpPath, nil
}

// downloadArchive fetches the archive to zipPath. HTTP downloads record the
// server's ETag in a sidecar file so later runs can revalidate.
func downloadArchive(ctx context.Context, rawURL, zipPath string) error {
	if strings.HasPrefix(rawURL, "ftp://") {
		f := fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: downloadTimeout})
		if _, err := f.DownloadToFile(ctx, rawURL, zipPath); err != nil {
			return err
		}
		return nil
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: downloadTimeout})
	if _, err := f.DownloadToFile(ctx, rawURL, zipPath); err != nil {
		return err
	}
	if etag, err := f.HeadETag(ctx, rawURL); err == nil && etag != "" {
		if err := os.WriteFile(etagPath(zipPath), []byte(etag), 0o644); err != nil {
			return eris.Wrap(err, "write etag sidecar")
		}
	}
	return nil
}

// refreshArchive revalidates a cached ZIP against the server's ETag. Any
// failure keeps the cached copy so renders still work offline.
func refreshArchive(ctx context.Context, rawURL, zipPath string, log *zap.Logger) {
	if strings.HasPrefix(rawURL, "ftp://") {
		log.Debug("archive cached, skipping ftp download", zap.String("path", zipPath))
		return
	}
	etag, err := os.ReadFile(etagPath(zipPath))
	if err != nil || len(etag) == 0 {
		log.Debug("archive cached without etag, reusing", zap.String("path", zipPath))
		return
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: downloadTimeout})
	body, newETag, changed, err := f.DownloadIfChanged(ctx, rawURL, string(etag))
	if err != nil {
		log.Warn("archive revalidation failed, reusing cached copy", zap.Error(err))
		return
	}
	if !changed {
		log.Debug("archive unchanged", zap.String("etag", string(etag)))
		return
	}
	defer body.Close() //nolint:errcheck

	if err := writeFile(zipPath, body); err != nil {
		log.Warn("archive refresh write failed, reusing cached copy", zap.Error(err))
		return
	}
	if newETag != "" {
		_ = os.WriteFile(etagPath(zipPath), []byte(newETag), 0o644)
	}
	log.Info("boundary archive refreshed")
}

func etagPath(zipPath string) string {
	return zipPath + ".etag"
}

func writeFile(dest string, r io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, r); err != nil {
		return eris.Wrap(err, "write file")
	}
	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}
