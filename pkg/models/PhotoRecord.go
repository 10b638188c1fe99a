package models

/*
PhotoRecord is a single row read from the photo index. It is produced
by a media index reader and consumed immediately to populate the
name lookup table and the grid data source.
*/
type PhotoRecord struct {
	ID          int64
	DisplayName string
	StoragePath string
}

/*
Location is what the name lookup table resolves a display name to.
It carries everything needed to decode the photo.
*/
type Location struct {
	ID   int64
	Path string
}

func (r PhotoRecord) Location() Location {
	return Location{
		ID:   r.ID,
		Path: r.StoragePath,
	}
}

func (r PhotoRecord) GridEntry() GridEntry {
	return GridEntry{
		StoragePath: r.StoragePath,
		DisplayName: r.DisplayName,
	}
}

type GridEntry struct {
	StoragePath string
	DisplayName string
}
