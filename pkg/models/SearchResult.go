package models

type SearchStatus int

const (
	SearchFound SearchStatus = iota
	SearchNotFound
	SearchDecodeFailed
)

const (
	MessageImageNotFound   = "Image not found"
	MessageFailedToDisplay = "Failed to display image"
)

func (s SearchStatus) String() string {
	switch s {
	case SearchFound:
		return "found"
	case SearchNotFound:
		return "not_found"
	case SearchDecodeFailed:
		return "decode_failed"
	}

	return "unknown"
}

/*
SearchResult is the outcome of a single search request. Nothing about
it is persisted.
*/
type SearchResult struct {
	Name     string
	Status   SearchStatus
	Message  string
	Location Location
}

func (r SearchResult) Found() bool {
	return r.Status == SearchFound
}
