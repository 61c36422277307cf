package media

import (
	"io"

	"recipe-app/internal/worker"
)

// DeferredStore 同步儲存上傳檔，但把刪除交給背景 worker，請求不需等待磁碟 I/O
type DeferredStore struct {
	*Storage
	pool worker.Pool
}

func NewDeferredStore(s *Storage, pool worker.Pool) *DeferredStore {
	return &DeferredStore{Storage: s, pool: pool}
}

func (d *DeferredStore) Save(r io.Reader) (*Image, error) {
	return d.Storage.Save(r)
}

// Delete 在 pool 已停止時改為同步刪除
func (d *DeferredStore) Delete(rel string) error {
	if d.pool.Submit("delete image "+rel, func() error { return d.Storage.Delete(rel) }) {
		return nil
	}
	return d.Storage.Delete(rel)
}
