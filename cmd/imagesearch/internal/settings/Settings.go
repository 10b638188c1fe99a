package settings

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/viewmodels"
	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/adampresley/imagesearch/pkg/services"
)

type SettingsHandlers interface {
	SettingsPage(w http.ResponseWriter, r *http.Request)
	SettingsAction(w http.ResponseWriter, r *http.Request)
}

type SettingsControllerConfig struct {
	Renderer        rendering.TemplateRenderer
	SettingsService services.SettingsServicer
}

type SettingsController struct {
	renderer        rendering.TemplateRenderer
	settingsService services.SettingsServicer
}

func NewSettingsController(config SettingsControllerConfig) SettingsController {
	return SettingsController{
		renderer:        config.Renderer,
		settingsService: config.SettingsService,
	}
}

/*
GET /settings
*/
func (c SettingsController) SettingsPage(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	pageName := "pages/settings"
	viewData := newSettingsViewModel(r)

	if viewData.Settings, err = c.settingsService.Read(); err != nil {
		slog.Error("error reading settings", "error", err)
		viewData.IsError = true
		viewData.Message = "Error reading settings. Please review logs for more details."
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
POST /settings
*/
func (c SettingsController) SettingsAction(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	pageName := "pages/settings"
	viewData := newSettingsViewModel(r)
	settings := SettingsFromRequest(r)

	if err = c.settingsService.Save(settings); err != nil {
		slog.Error("error saving settings", "error", err)
		viewData.IsError = true
		viewData.Message = "Error saving settings. Please review logs for more details."
		viewData.Settings = settings

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if viewData.Settings, err = c.settingsService.Read(); err != nil {
		slog.Error("error reading settings after save", "error", err)
		viewData.IsError = true
		viewData.Message = "Settings saved, but there was an error reading them back. Please refresh the page."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Message = "Settings saved. The photo grid picks up a new library on the next restart."
	c.renderer.Render(pageName, viewData, w)
}

/*
SettingsFromRequest reads the settings form.
*/
func SettingsFromRequest(r *http.Request) *models.Settings {
	return &models.Settings{
		CollectorSchedule: strings.TrimSpace(httphelpers.GetFromRequest[string](r, "collectorSchedule")),
		MaxWorkers:        httphelpers.GetFromRequest[int](r, "maxWorkers"),
		LibraryPath:       strings.TrimSpace(httphelpers.GetFromRequest[string](r, "libraryPath")),
		ThumbnailSize:     httphelpers.GetFromRequest[int](r, "thumbnailSize"),
	}
}

func newSettingsViewModel(r *http.Request) viewmodels.Settings {
	return viewmodels.Settings{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
		},
		Settings: &models.Settings{},
	}
}
