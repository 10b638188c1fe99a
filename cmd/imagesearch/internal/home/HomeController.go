package home

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/configuration"
	"github.com/adampresley/imagesearch/cmd/imagesearch/internal/viewmodels"
	"github.com/adampresley/imagesearch/pkg/gallery"
	"github.com/adampresley/imagesearch/pkg/models"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	SearchAction(w http.ResponseWriter, r *http.Request)
}

/*
Searcher finds a photo by exact display name.
*/
type Searcher interface {
	Search(ctx context.Context, name string) (models.SearchResult, error)
}

type HomeControllerConfig struct {
	Config   *configuration.Config
	Grid     *gallery.GridRenderer
	Preview  *gallery.Preview
	Renderer rendering.TemplateRenderer
	Search   Searcher
}

type HomeController struct {
	config   *configuration.Config
	grid     *gallery.GridRenderer
	preview  *gallery.Preview
	renderer rendering.TemplateRenderer
	search   Searcher
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		config:   config.Config,
		grid:     config.Grid,
		preview:  config.Preview,
		renderer: config.Renderer,
		search:   config.Search,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	/*
	 * Ignore metadata queries, like ".well_know"
	 */
	if strings.HasPrefix(r.URL.String(), "/.") {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	pageName := "pages/home"
	c.renderer.Render(pageName, c.homePageView(r), w)
}

func (c HomeController) homePageView(r *http.Request) viewmodels.Home {
	offset := httphelpers.GetFromRequest[int](r, "offset")
	return c.homeViewModel(r, c.grid.Scroll(offset))
}

/*
POST /search
*/
func (c HomeController) SearchAction(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"
	c.renderer.Render(pageName, c.searchView(r), w)
}

/*
searchView runs the search for the trimmed name and shows the outcome
over the current grid window.
*/
func (c HomeController) searchView(r *http.Request) viewmodels.Home {
	var (
		err    error
		result models.SearchResult
	)

	name := strings.TrimSpace(httphelpers.GetFromRequest[string](r, "name"))

	ctx, cancel := context.WithTimeout(r.Context(), c.config.SearchTimeout())
	defer cancel()

	result, err = c.search.Search(ctx, name)

	if err != nil {
		slog.Error("search did not finish", "error", err, "name", name)
	}

	viewData := c.homeViewModel(r, c.grid.Window())
	viewData.SearchTerm = name
	viewData.Message, viewData.IsError = SearchMessage(result, err)

	return viewData
}

func (c HomeController) homeViewModel(r *http.Request, cells []gallery.CellView) viewmodels.Home {
	result := viewmodels.NewHome(cells, c.grid.ItemCount(), c.grid.Offset(), c.grid.PageSize())

	result.BaseViewModel = viewmodels.BaseViewModel{
		IsHtmx: httphelpers.IsHtmx(r),
		JavascriptIncludes: []rendering.JavascriptInclude{
			{Src: "/static/js/pages/home.js", Type: "module"},
		},
	}

	if preview, ok := c.preview.Current(); ok {
		result.Preview = viewmodels.NewPreviewModel(preview)
	}

	return result
}

/*
SearchMessage turns a search outcome into the toast shown to the user.
A found photo shows no message.
*/
func SearchMessage(result models.SearchResult, err error) (string, bool) {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "The search is taking longer than expected. The preview will update when it finishes.", false
		}

		return models.MessageFailedToDisplay, true
	}

	switch result.Status {
	case models.SearchNotFound:
		return models.MessageImageNotFound, true

	case models.SearchDecodeFailed:
		return models.MessageFailedToDisplay, true
	}

	return "", false
}
