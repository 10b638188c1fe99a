package viewmodels

import "github.com/adampresley/imagesearch/pkg/models"

type Settings struct {
	BaseViewModel
	Settings *models.Settings
}
