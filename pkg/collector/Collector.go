package collector

import (
	"fmt"

	"github.com/adampresley/imagesearch/pkg/services"
)

var (
	ErrCollectorAlreadyRunning = fmt.Errorf("collector is already running")
	ErrInvalidLibraryPath      = fmt.Errorf("invalid library path")
)

/*
Collector keeps the photo catalog in line with the library folder. Run
returns the per-photo errors it collected along the way, and an error
when the run as a whole could not happen.
*/
type Collector interface {
	Run(settingsService services.SettingsServicer) ([]error, error)
}
