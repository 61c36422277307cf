package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage 表示上傳內容無法解碼為支援的圖片格式
var ErrInvalidImage = errors.New("invalid image")

// UploadDir 為使用者頭像在 media root 下的相對目錄
const UploadDir = "uploads/user"

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

var newFileName = uuid.NewString

// maxImagePixels 限制解碼前宣告的寬高乘積，避免小檔案宣告巨大尺寸耗盡記憶體
var maxImagePixels = 40_000_000

// Image 描述一個已儲存的上傳檔；Path 相對於 media root，以 "/" 分隔
type Image struct {
	Path     string
	BlurHash string
	Width    int
	Height   int
	Format   string
}

// Storage 把上傳圖片寫入 root 之下，檔名為隨機 UUID
type Storage struct {
	root string
	mu   sync.Mutex
}

func NewStorage(root string) (*Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(UploadDir)), 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Storage{root: root}, nil
}

func (s *Storage) Root() string { return s.root }

// Save 先檢查宣告尺寸，再完整解碼以確認是有效圖片，最後寫入磁碟並計算 BlurHash
func (s *Storage) Save(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxImagePixels/cfg.Height {
		return nil, fmt.Errorf("%w: dimensions %dx%d exceed limit", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	ext, ok := extensions[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidImage, format)
	}

	rel := UploadDir + "/" + newFileName() + ext
	s.mu.Lock()
	err = os.WriteFile(s.abs(rel), data, 0o644)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write image file: %w", err)
	}

	hash, err := BlurHash(img)
	if err != nil {
		hash = ""
	}

	b := img.Bounds()
	return &Image{
		Path:     rel,
		BlurHash: hash,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Format:   format,
	}, nil
}

// Delete 移除 root 之下的檔案；檔案已不存在時不視為錯誤
func (s *Storage) Delete(rel string) error {
	clean := filepath.ToSlash(filepath.Clean("/" + rel))[1:]
	if !strings.HasPrefix(clean, UploadDir+"/") {
		return fmt.Errorf("refusing to delete %q outside %s", rel, UploadDir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.abs(clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// Exists 回傳 rel 是否存在於 root 之下
func (s *Storage) Exists(rel string) bool {
	_, err := os.Stat(s.abs(rel))
	return err == nil
}

func (s *Storage) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}
