package main

import (
	"context"
	"embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/adampresley/adamgokit/cron"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/configuration"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/home"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/library"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/settings"
	"github.com/adampresley/imagesearch/pkg/cache"
	"github.com/adampresley/imagesearch/pkg/collector"
	"github.com/adampresley/imagesearch/pkg/gallery"
	"github.com/adampresley/imagesearch/pkg/imageloader"
	"github.com/adampresley/imagesearch/pkg/mediaindex"
	"github.com/adampresley/imagesearch/pkg/metrics"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/permission"
	"github.com/adampresley/imagesearch/pkg/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "imagesearch"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	db              *sqlz.DB
	cacheCreator    cache.CacheCreator
	imageCollector  collector.Collector
	photoCache      services.PhotoCacher
	photoService    services.PhotoServicer
	renderer        rendering.TemplateRenderer
	settingsService services.SettingsServicer

	/* Gallery */
	galleryMetrics   *metrics.GalleryMetrics
	loader           *imageloader.Loader
	lookupTable      *gallery.NameLookupTable
	dataSource       *gallery.GridDataSource
	grid             *gallery.GridRenderer
	preview          *gallery.Preview
	searchController *gallery.SearchController
	photoGallery     *gallery.Gallery

	/* Controllers */
	homeController     home.HomeHandlers
	libraryController  library.LibraryHandlers
	settingsController settings.SettingsHandlers
)

func main() {
	var (
		err          error
		userSettings *models.Settings
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("indexSource", config.IndexSource),
	)

	if err = config.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Debug("setting up...")

	if db, err = services.Connect(config.DSN); err != nil {
		panic(err)
	}

	if err = services.MigrateDatabase(db, config.DataMigrationDir); err != nil {
		panic(err)
	}

	/*
	 * Setup services
	 */
	renderer = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		LayoutsDir:        "layouts",
		ComponentsDir:     "components",
	})

	settingsService = services.NewSettingsService(services.SettingsServiceConfig{
		DB: db,
	})

	if userSettings, err = settingsService.Read(); err != nil {
		slog.Error("error reading settings from the database", "error", err)
		return
	}

	photoCache = services.NewPhotoCache(services.PhotoCacheConfig{
		CachePath: config.CacheDirectory,
	})

	photoService = services.NewPhotoService(services.PhotoServiceConfig{
		DB: db,
	})

	cacheCreator = cache.NewThumbnailCacheCreator(uint(userSettings.ThumbnailSize))

	imageCollector, err = collector.NewImageCollector(collector.ImageCollectorConfig{
		CachePath:    config.CacheDirectory,
		CacheCreator: cacheCreator,
		PhotoCache:   photoCache,
		PhotoService: photoService,
	})

	if err != nil {
		slog.Error("error setting up the image collector. the cache path is probably incorrect.", "error", err.Error())
		os.Exit(1)
	}

	/*
	 * Setup the gallery
	 */
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	if galleryMetrics, err = metrics.NewGalleryMetrics(registry); err != nil {
		slog.Error("error registering metrics", "error", err)
		os.Exit(1)
	}

	loader = imageloader.NewLoader(imageloader.LoaderConfig{
		CacheCreator:    cacheCreator,
		PhotoCache:      photoCache,
		SettingsService: settingsService,
		Metrics:         galleryMetrics,
		MaxWorkers:      config.MaxCacheWorkers,
		ImageCacheTTL:   config.ImageCacheTTL(),
	})

	lookupTable = gallery.NewNameLookupTable()
	dataSource = gallery.NewGridDataSource()
	preview = gallery.NewPreview()

	grid = gallery.NewGridRenderer(gallery.GridRendererConfig{
		DataSource: dataSource,
		Loader:     loader,
		Metrics:    galleryMetrics,
		PageSize:   config.GridPageSize,
	})

	searchController = gallery.NewSearchController(gallery.SearchControllerConfig{
		LookupTable: lookupTable,
		Decoder:     loader,
		Preview:     preview,
		Metrics:     galleryMetrics,
	})

	photoGallery = gallery.NewGallery(gallery.GalleryConfig{
		Permission: permission.NewLibraryPermission(permission.LibraryPermissionConfig{
			AllowLibraryAccess: config.AllowLibraryAccess,
			SettingsService:    settingsService,
		}),
		Reader:      newMediaIndexReader(),
		LookupTable: lookupTable,
		DataSource:  dataSource,
		Metrics:     galleryMetrics,
	})

	/*
	 * Setup controllers
	 */
	homeController = home.NewHomeController(home.HomeControllerConfig{
		Config:   &config,
		Grid:     grid,
		Preview:  preview,
		Renderer: renderer,
		Search:   searchController,
	})

	libraryController = library.NewLibraryController(library.LibraryControllerConfig{
		Config:          &config,
		DataSource:      dataSource,
		Preview:         preview,
		SettingsService: settingsService,
		Thumbnails:      loader,
	})

	settingsController = settings.NewSettingsController(settings.SettingsControllerConfig{
		Renderer:        renderer,
		SettingsService: settingsService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: homeController.HomePage},
		{Path: "POST /search", HandlerFunc: homeController.SearchAction},
		{Path: "GET /grid/{index}/image", HandlerFunc: libraryController.ServeImage},
		{Path: "GET /grid/{index}/thumbnail", HandlerFunc: libraryController.ServeThumbnail},
		{Path: "GET /preview", HandlerFunc: libraryController.ServePreview},
		{Path: "GET /settings", HandlerFunc: settingsController.SettingsPage},
		{Path: "POST /settings", HandlerFunc: settingsController.SettingsAction},
		{Path: "GET /metrics", HandlerFunc: metricsHandler.ServeHTTP},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Collect once so the catalog is current, then index the gallery
	 */
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if config.IndexSource == configuration.IndexSourceCatalog {
			runCollectors()
		}

		photoGallery.Start(ctx)
	}()

	setupCollectors(userSettings)
	cron.Start()

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit
	cancel()
	_ = cron.Stop()
	mux.Shutdown(httpServer)
	loader.Stop()
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func newMediaIndexReader() mediaindex.Reader {
	if config.IndexSource == configuration.IndexSourceFilesystem {
		return mediaindex.NewFilesystemReader(mediaindex.FilesystemReaderConfig{
			SettingsService: settingsService,
		})
	}

	return mediaindex.NewCatalogReader(mediaindex.CatalogReaderConfig{
		DB: db,
	})
}

func setupCollectors(userSettings *models.Settings) {
	cron.Add(userSettings.CollectorSchedule, runCollectors)
}

func runCollectors() {
	var (
		err  error
		errs []error
		es   []error
	)

	all := []collector.Collector{
		imageCollector,
	}

	for _, c := range all {
		if es, err = c.Run(settingsService); err != nil {
			slog.Error("error running collector", "error", err)
			return
		}

		errs = append(errs, es...)
	}

	if len(errs) > 0 {
		slog.Error("errors captured during photo collection", "errors", errs)
	}

	slog.Info("photo collection completed")
}
