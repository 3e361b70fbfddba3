package borders

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configures boundary acquisition.
type Options struct {
	Year     int    // cartographic boundary vintage (default 2023)
	Detail   string // "500k", "5m", or "20m" (default "20m")
	CacheDir string // geometry + archive cache (default user cache dir)
	URL      string // archive URL override; ftp:// selects the FTP transport
	Offline  bool   // cache only, no network
}

func (o Options) withDefaults() Options {
	if o.Year == 0 {
		o.Year = 2023
	}
	if o.Detail == "" {
		o.Detail = "20m"
	}
	if o.CacheDir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			o.CacheDir = filepath.Join(base, "wandermage", "borders")
		} else {
			o.CacheDir = filepath.Join(os.TempDir(), "wandermage-borders")
		}
	}
	return o
}

// Load returns the state boundary set for the configured vintage. The first
// call downloads and parses the Census archive; parsed geometry is cached so
// later calls, including offline ones, read from disk.
func Load(ctx context.Context, opts Options) ([]StateShape, error) {
	opts = opts.withDefaults()
	log := zap.L().With(
		zap.String("component", "borders.loader"),
		zap.Int("year", opts.Year),
		zap.String("detail", opts.Detail),
	)

	cachePath := filepath.Join(opts.CacheDir, fmt.Sprintf("cb_%d_us_state_%s.geom.json", opts.Year, opts.Detail))
	if shapes, err := LoadCache(cachePath); err == nil {
		log.Debug("boundaries loaded from cache", zap.Int("states", len(shapes)))
		return shapes, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Warn("boundary cache unreadable, refetching", zap.Error(err))
	}

	if opts.Offline {
		return nil, eris.Errorf("borders: no cached boundaries for %d/%s (offline mode; run `wandermage map borders` online first)", opts.Year, opts.Detail)
	}

	url := opts.URL
	if url == "" {
		url = DownloadURL(opts.Year, opts.Detail)
	}

	shpPath, err := FetchArchive(ctx, url, opts.CacheDir)
	if err != nil {
		return nil, err
	}
	log.Info("boundary shapefile ready", zap.String("path", shpPath))

	shapes, err := ParseShapefile(shpPath)
	if err != nil {
		return nil, err
	}
	log.Info("boundaries parsed", zap.Int("states", len(shapes)))

	if err := SaveCache(cachePath, shapes); err != nil {
		log.Warn("boundary cache write failed", zap.Error(err))
	}
	return shapes, nil
}

// Prepare projects and simplifies geographic shapes for rendering at the
// given width. Returns the prepared shapes plus the effective canvas width
// and its derived height.
func Prepare(shapes []StateShape, width, simplifyTolerance float64) ([]StateShape, float64, float64, error) {
	layout, err := NewLayout(shapes, width)
	if err != nil {
		return nil, 0, 0, err
	}
	projected := layout.ProjectAll(shapes)
	return SimplifyShapes(projected, simplifyTolerance), layout.Width, layout.Height, nil
}
