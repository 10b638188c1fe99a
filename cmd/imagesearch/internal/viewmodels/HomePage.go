package viewmodels

import (
	"github.com/adampresley/imagesearch/pkg/gallery"
	"github.com/adampresley/imagesearch/pkg/models"
)

type Home struct {
	BaseViewModel
	Cells      []gallery.CellView
	TotalCount int
	Offset     int
	PageSize   int
	PrevOffset int
	NextOffset int
	HasPrev    bool
	HasNext    bool
	SearchTerm string
	Preview    *PreviewModel
}

type PreviewModel struct {
	Name     string
	ImageURL string
	Location models.Location
}

/*
NewHome builds the home page model from the current grid window.
*/
func NewHome(cells []gallery.CellView, totalCount, offset, pageSize int) Home {
	result := Home{
		Cells:      cells,
		TotalCount: totalCount,
		Offset:     offset,
		PageSize:   pageSize,
	}

	if offset > 0 {
		result.HasPrev = true
		result.PrevOffset = max(offset-pageSize, 0)
	}

	if offset+pageSize < totalCount {
		result.HasNext = true
		result.NextOffset = offset + pageSize
	}

	return result
}

func NewPreviewModel(preview gallery.PreviewImage) *PreviewModel {
	return &PreviewModel{
		Name:     preview.Name,
		ImageURL: "/preview",
		Location: preview.Location,
	}
}
