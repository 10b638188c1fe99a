package models

type Settings struct {
	ID                int
	CollectorSchedule string
	MaxWorkers        int
	LibraryPath       string
	ThumbnailSize     int
}
