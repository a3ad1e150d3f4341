package biz

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

var (
	// ErrorMissingBuildFile 构建文件未提供或不存在
	ErrorMissingBuildFile = errors.BadRequest("MISSING_BUILD_FILE", "请提供构建文件")
	// ErrorMissingParameter 缺少必填参数，metadata 中的 key 为参数名
	ErrorMissingParameter = errors.BadRequest("MISSING_PARAMETER", "缺少必填参数")
	// ErrorUnsupportedAppType 文件扩展名不是 .apk
	ErrorUnsupportedAppType = errors.BadRequest("UNSUPPORTED_APP_TYPE", "不支持的APP类型")
	// ErrorOssClient 创建客户端或获取 Bucket 失败
	ErrorOssClient = errors.ServiceUnavailable("OSS_CLIENT_ERROR", "对象存储客户端初始化失败")
	// ErrorOssTransfer 查询或上传对象失败
	ErrorOssTransfer = errors.InternalServer("OSS_TRANSFER_ERROR", "对象存储传输失败")
)

const (
	apkExt         = ".apk"
	apkContentType = "application/vnd.android.package-archive"
)

// ObjectStore 对象存储操作接口（由 data 层实现）
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string, fn func(key string) error) error
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// ObjectStoreOpener 延迟创建客户端，保证本地校验先于任何网络操作
type ObjectStoreOpener interface {
	OpenObjectStore(ctx context.Context) (ObjectStore, error)
}

// UploadUseCase apk 上传用例
type UploadUseCase struct {
	opener ObjectStoreOpener
	conf   *conf.Oss
	log    *log.Helper
}

// NewUploadUseCase 创建 apk 上传用例
func NewUploadUseCase(opener ObjectStoreOpener, c *conf.Oss, logger log.Logger) *UploadUseCase {
	return &UploadUseCase{
		opener: opener,
		conf:   c,
		log:    log.NewHelper(logger),
	}
}

// UploadInput 上传输入
type UploadInput struct {
	AppName     string
	FilePath    string
	ListBuckets conf.Toggle
}

// UploadResult 上传结果
type UploadResult struct {
	ObjectKey   string
	DownloadURL string
	Size        int64
	Replaced    bool // 上传前同名对象已存在
	UploadedAt  time.Time
}

// Upload 把 apk 上传到 {app_name}/{文件名}，同名对象直接覆盖
func (uc *UploadUseCase) Upload(ctx context.Context, in *UploadInput) (*UploadResult, error) {
	uc.log.Info("开始上传 apk 到对象存储")

	// 1. 本地校验
	key, err := uc.validate(in)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("endpoint: %s  bucket_name: %s", uc.conf.Endpoint, uc.conf.BucketName)
	uc.log.Infof("构建文件: %s", in.FilePath)

	// 2. 创建客户端
	store, err := uc.opener.OpenObjectStore(ctx)
	if err != nil {
		uc.log.Errorf("创建对象存储客户端失败: %v", err)
		return nil, ErrorOssClient.WithCause(err)
	}

	// 3. 列出 bucket 中的文件，失败不影响上传
	if in.ListBuckets.IsEnabled() {
		uc.listObjects(ctx, store)
	}
	uc.log.Info("======================================")

	// 4. 是否已存在只决定提示语，上传总是覆盖
	exists, err := store.Exists(ctx, key)
	if err != nil {
		uc.log.Errorf("查询文件是否存在失败: %v", err)
		return nil, ErrorOssTransfer.WithCause(err)
	}
	if exists {
		uc.log.Info("正在更新文件，可能需要几分钟，请稍等...")
	} else {
		uc.log.Info("正在上传文件，可能需要几分钟，请稍等...")
	}

	// 5. 上传
	size, err := uc.put(ctx, store, key, in.FilePath)
	if err != nil {
		uc.log.Errorf("上传文件失败: %v", err)
		return nil, ErrorOssTransfer.WithCause(err)
	}

	// 6. 生成下载链接
	downloadURL := DownloadURL(uc.conf, key)
	uc.log.Info("上传成功")
	uc.log.Infof("下载链接: %s", downloadURL)

	return &UploadResult{
		ObjectKey:   key,
		DownloadURL: downloadURL,
		Size:        size,
		Replaced:    exists,
		UploadedAt:  time.Now(),
	}, nil
}

// validate 校验参数与本地文件，返回对象 key
func (uc *UploadUseCase) validate(in *UploadInput) (string, error) {
	required := []struct {
		key   string
		value string
	}{
		{"endpoint", uc.conf.Endpoint},
		{"bucket_name", uc.conf.BucketName},
		{"app_name", in.AppName},
	}
	// local 供应商不需要凭据
	if uc.conf.ProviderName() != conf.ProviderLocal {
		required = append(required,
			struct {
				key   string
				value string
			}{"access_key_id", uc.conf.AccessKeyId},
			struct {
				key   string
				value string
			}{"access_key_secret", uc.conf.AccessKeySecret},
		)
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return "", ErrorMissingParameter.WithMetadata(map[string]string{"key": r.key})
		}
	}

	if in.FilePath == "" {
		return "", ErrorMissingBuildFile
	}

	key, err := ObjectKey(in.AppName, in.FilePath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(in.FilePath)
	if err != nil {
		return "", ErrorMissingBuildFile.WithMetadata(map[string]string{"path": in.FilePath}).WithCause(err)
	}
	if !info.Mode().IsRegular() {
		return "", ErrorMissingBuildFile.WithMetadata(map[string]string{"path": in.FilePath}).
			WithCause(fmt.Errorf("%s is not a regular file", in.FilePath))
	}
	return key, nil
}

// put 上传文件内容，文件句柄在所有路径上都会关闭
func (uc *UploadUseCase) put(ctx context.Context, store ObjectStore, key, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	uc.log.Infof("文件大小: %d 字节", info.Size())

	if err := store.Upload(ctx, key, f, info.Size(), apkContentType); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (uc *UploadUseCase) listObjects(ctx context.Context, store ObjectStore) {
	uc.log.Info("========== list all buckets ==========")
	count := 0
	err := store.List(ctx, "", func(key string) error {
		uc.log.Info(key)
		count++
		return nil
	})
	if err != nil {
		uc.log.Warnf("列出 bucket 文件失败，继续上传: %v", err)
		return
	}
	uc.log.Infof("共 %d 个文件", count)
}

// ObjectKey 生成对象存储路径：{app_name}/{文件名}，只接受 .apk
// app_name 中多余的 / 会被合并，只剩 / 时视为未配置
func ObjectKey(appName, filePath string) (string, error) {
	ext := filepath.Ext(filePath)
	if ext != apkExt {
		return "", ErrorUnsupportedAppType.WithMetadata(map[string]string{"ext": ext})
	}
	segments := make([]string, 0, 4)
	for _, s := range strings.Split(appName, "/") {
		if strings.TrimSpace(s) != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return "", ErrorMissingParameter.WithMetadata(map[string]string{"key": "app_name"})
	}
	return strings.Join(segments, "/") + "/" + filepath.Base(filePath), nil
}

// DownloadURL 生成公开下载链接
// 配置了外链域名时使用 {domain}/{key}，否则使用 https://{bucket}.{endpoint}/{key}
func DownloadURL(c *conf.Oss, key string) string {
	if c.Domain != "" {
		domain := strings.TrimSuffix(c.Domain, "/")
		if !strings.Contains(domain, "://") {
			domain = "https://" + domain
		}
		return domain + "/" + key
	}
	return fmt.Sprintf("https://%s.%s/%s", c.BucketName, normalizeEndpoint(c.Endpoint), key)
}

// normalizeEndpoint 只保留 host，兼容直接粘贴完整 URL 的情况
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if strings.Contains(endpoint, "://") {
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			endpoint = u.Host
		}
	}
	endpoint = strings.SplitN(endpoint, "/", 2)[0]
	return strings.TrimSuffix(endpoint, ".")
}

// IsConfigurationError 本地输入错误，发生在任何网络请求之前
func IsConfigurationError(err error) bool {
	return errors.IsBadRequest(err)
}

// IsClientError 创建客户端失败
func IsClientError(err error) bool {
	return errors.Reason(err) == ErrorOssClient.Reason
}

// IsTransferError 查询、列举或上传失败
func IsTransferError(err error) bool {
	return errors.Reason(err) == ErrorOssTransfer.Reason
}
