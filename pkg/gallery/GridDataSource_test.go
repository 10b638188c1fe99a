package gallery

import (
	"testing"

	"github.com/adampresley/imagesearch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridDataSourceKeepsAppendOrder(t *testing.T) {
	ds := NewGridDataSource()
	ds.Append("/p/b.jpg", "b.jpg")
	ds.Append("/p/a.jpg", "a.jpg")

	require.Equal(t, 2, ds.Size())

	first, err := ds.At(0)
	require.NoError(t, err)
	assert.Equal(t, models.GridEntry{StoragePath: "/p/b.jpg", DisplayName: "b.jpg"}, first)

	second, err := ds.At(1)
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", second.DisplayName)
}

func TestGridDataSourceAtOutOfRange(t *testing.T) {
	ds := NewGridDataSource()

	_, err := ds.At(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	ds.Append("/p/a.jpg", "a.jpg")

	_, err = ds.At(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = ds.At(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestGridDataSourceNotifiesOncePerBulkLoad(t *testing.T) {
	ds := NewGridDataSource()
	observer := &countingObserver{}
	ds.Observe(observer)

	ds.AppendAll([]models.GridEntry{
		{StoragePath: "/p/1.jpg", DisplayName: "1.jpg"},
		{StoragePath: "/p/2.jpg", DisplayName: "2.jpg"},
		{StoragePath: "/p/3.jpg", DisplayName: "3.jpg"},
	})

	assert.Equal(t, int32(1), observer.calls.Load())
	assert.Equal(t, 3, ds.Size())

	ds.AppendAll(nil)
	assert.Equal(t, int32(1), observer.calls.Load())

	ds.Append("/p/4.jpg", "4.jpg")
	assert.Equal(t, int32(2), observer.calls.Load())
}
