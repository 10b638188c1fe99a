package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/app-nerds/configinator"
)

const (
	IndexSourceCatalog    = "catalog"
	IndexSourceFilesystem = "filesystem"
)

type Config struct {
	AllowLibraryAccess bool   `flag:"allowlibrary" env:"ALLOW_LIBRARY_ACCESS" default:"true" description:"Whether the app may read the photo library at all"`
	CacheDirectory     string `flag:"ccd" env:"CACHE_DIRECTORY" default:"../../cache" description:"Cache directory"`
	DataMigrationDir   string `flag:"dmd" env:"DATA_MIGRATION_DIR" default:"../../sql-migrations" description:"Migration folder"`
	DSN                string `flag:"dsn" env:"DSN" default:"file:./data/imagesearch.db" description:"Database connection"`
	GridPageSize       int    `flag:"gridpagesize" env:"GRID_PAGE_SIZE" default:"48" description:"Number of grid cells shown at once"`
	Host               string `flag:"host" env:"HOST" default:"localhost:8080" description:"The address and port to bind the HTTP server to"`
	ImageCacheSeconds  int    `flag:"imagecachesecs" env:"IMAGE_CACHE_SECONDS" default:"300" description:"How many seconds decoded full size images stay in memory. 0 disables it"`
	IndexSource        string `flag:"indexsource" env:"INDEX_SOURCE" default:"catalog" description:"Where photos are indexed from. Valid values are 'catalog' and 'filesystem'"`
	LogFile            string `flag:"logfile" env:"LOG_FILE" default:"" description:"Write logs to this file, rotated by size. Empty logs to stdout"`
	LogLevel           string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	LogMaxSizeMB       int    `flag:"logmaxsize" env:"LOG_MAX_SIZE_MB" default:"50" description:"Size in megabytes a log file grows to before it is rotated"`
	MaxCacheWorkers    int    `flag:"mcw" env:"MAX_CACHE_WORKERS" default:"5" description:"Number of concurrent image decode workers"`
	SearchTimeoutSecs  int    `flag:"searchtimeout" env:"SEARCH_TIMEOUT_SECONDS" default:"10" description:"Seconds a search request waits for the image to decode"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}

func (c *Config) ImageCacheTTL() time.Duration {
	return time.Duration(c.ImageCacheSeconds) * time.Second
}

func (c *Config) SearchTimeout() time.Duration {
	if c.SearchTimeoutSecs <= 0 {
		return 10 * time.Second
	}

	return time.Duration(c.SearchTimeoutSecs) * time.Second
}

func (c *Config) Validate() error {
	if c.IndexSource != IndexSourceCatalog && c.IndexSource != IndexSourceFilesystem {
		return fmt.Errorf("invalid index source '%s'", c.IndexSource)
	}

	if c.GridPageSize <= 0 {
		return fmt.Errorf("grid page size must be positive, got %d", c.GridPageSize)
	}

	return nil
}

// SanitizePath ensures that a given path cannot traverse outside the library folder.
// It returns a safe, absolute path within the library folder, or an error if the path
// would escape the library folder boundary.
func (c *Config) SanitizePath(libraryPath, requestedPath string) (string, error) {
	libraryFolderAbs, err := filepath.Abs(libraryPath)

	if err != nil {
		return "", err
	}

	targetPath := filepath.Clean(filepath.Join(libraryFolderAbs, filepath.Clean(requestedPath)))

	if targetPath != libraryFolderAbs && !strings.HasPrefix(targetPath, libraryFolderAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid path traversal attempt: %s", requestedPath)
	}

	return targetPath, nil
}
