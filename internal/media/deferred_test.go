package media

import (
	"bytes"
	"testing"

	"recipe-app/internal/worker"

	"github.com/stretchr/testify/require"
)

func TestDeferredStoreDelete(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	pool := worker.NewPool(1, 1)
	d := NewDeferredStore(s, pool)

	img, err := d.Save(bytes.NewReader(encodeJPEG(t, 8, 8)))
	require.NoError(t, err)
	require.True(t, s.Exists(img.Path))

	require.NoError(t, d.Delete(img.Path))
	pool.Stop()
	require.False(t, s.Exists(img.Path))

	// pool 停止後仍會同步刪除
	img, err = d.Save(bytes.NewReader(encodeJPEG(t, 8, 8)))
	require.NoError(t, err)
	require.NoError(t, d.Delete(img.Path))
	require.False(t, s.Exists(img.Path))
}
