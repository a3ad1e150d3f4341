package conf

import (
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/spf13/pflag"
)

// Param 一个可配置的参数，键名同时用作 flag 名、配置文件键和环境变量名
type Param struct {
	Name  string
	Usage string
}

// Params 所有对外暴露的参数
var Params = []Param{
	{"endpoint", "OSS 对外服务的访问域名，例如 oss-cn-shenzhen.aliyuncs.com"},
	{"access_key_id", "AccessKeyId，用于标识用户"},
	{"access_key_secret", "AccessKeySecret，用于签名，必须保密"},
	{"security_token", "STS 临时凭据的 SecurityToken（可选）"},
	{"bucket_name", "存储空间名称"},
	{"app_name", "App 名称，同时作为文件目录，可以是多级路径"},
	{"apk", "apk 文件路径"},
	{"list_buckets", "是否列出 bucket 中已有的所有文件"},
	{"provider", "存储供应商：aliyun、minio、qiniu、local"},
	{"region", "存储区域（七牛 / MinIO）"},
	{"domain", "绑定的外链域名，配置后下载链接使用该域名"},
	{"object_acl", "对象权限：private、public-read、public-read-write"},
	{"use_https", "MinIO 是否使用 https"},
	{"local_dir", "local 供应商的存储目录"},
	{"connect_timeout", "连接超时，例如 10s"},
	{"read_write_timeout", "读写超时，例如 120s"},
	{"log_level", "日志级别：debug、info、warn、error"},
}

func isParam(name string) bool {
	for _, p := range Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// RegisterFlags 为每个参数注册一个同名的字符串 flag
func RegisterFlags(flags *pflag.FlagSet) {
	for _, p := range Params {
		flags.String(p.Name, "", p.Usage)
	}
}

// Load 按 配置文件 < 命令行 < 环境变量 的优先级合并配置
// path 为空时跳过配置文件；只有与参数完全同名的环境变量参与覆盖
func Load(path string, flags *pflag.FlagSet) (*Bootstrap, error) {
	sources := make([]config.Source, 0, 3)
	if path != "" {
		sources = append(sources, file.NewSource(path))
	}
	sources = append(sources, NewFlagSource(flags), NewEnvSource())

	c := config.New(
		config.WithSource(sources...),
		config.WithResolver(envResolver),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		return nil, err
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}
