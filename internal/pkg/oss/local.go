package oss

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

// localStorage 把本地目录当作 bucket，用于演练和测试
type localStorage struct {
	baseDir string
	conf    *conf.Oss
	log     *log.Helper
}

func NewLocalStorage(c *conf.Oss, logger log.Logger) (Storage, error) {
	// 默认存储在当前运行目录的 uploads 下
	baseDir := "uploads"
	if c.LocalDir != "" {
		baseDir = c.LocalDir
	} else if c.BucketName != "" {
		baseDir = c.BucketName
	}

	// 确保存储目录存在
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	return &localStorage{
		baseDir: baseDir,
		conf:    c,
		log:     log.NewHelper(log.With(logger, "module", "oss/local")),
	}, nil
}

// resolve 拼接完整文件路径，并防止路径遍历 (Path Traversal)
func (s *localStorage) resolve(key string) (string, error) {
	cleanBase, err := filepath.Abs(filepath.Clean(s.baseDir))
	if err != nil {
		return "", err
	}
	cleanPath, err := filepath.Abs(filepath.Join(cleanBase, filepath.FromSlash(key)))
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(cleanBase, cleanPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid file path: %s", key)
	}
	return cleanPath, nil
}

func (s *localStorage) Exists(ctx context.Context, key string) (bool, error) {
	filePath, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *localStorage) List(ctx context.Context, prefix string, fn func(key string) error) error {
	return filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		return fn(key)
	})
}

func (s *localStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	filePath, err := s.resolve(key)
	if err != nil {
		return err
	}

	// 确保文件所在目录存在
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}

	// 先写临时文件再改名，失败时不破坏已有文件
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// 流式写入文件
	written, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if size >= 0 && written != size {
		return fmt.Errorf("short write: %d of %d bytes", written, size)
	}

	s.log.Debugf("Stored %s (%d bytes)", filePath, written)
	return os.Rename(tmp.Name(), filePath)
}
