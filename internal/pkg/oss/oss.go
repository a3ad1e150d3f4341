package oss

import (
	"context"
	"errors"
	"io"
)

var ErrUnknownProvider = errors.New("unknown storage provider")

type Storage interface {
	// Exists 判断对象是否已存在
	Exists(ctx context.Context, key string) (bool, error)
	// List 按前缀遍历对象，fn 返回错误时停止遍历
	List(ctx context.Context, prefix string, fn func(key string) error) error
	// Upload 上传数据流，同名对象直接覆盖
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}
