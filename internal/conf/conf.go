package conf

// Bootstrap 是一次上传所需的全部配置
// 内嵌结构体保证所有键都是平铺的，与命令行参数、环境变量同名
type Bootstrap struct {
	Oss
	App
	Log
}

// Oss 对象存储连接配置
type Oss struct {
	// Provider 存储供应商：aliyun（默认）、minio、qiniu、local
	Provider        string `json:"provider"`
	Endpoint        string `json:"endpoint"`
	AccessKeyId     string `json:"access_key_id"`
	AccessKeySecret string `json:"access_key_secret"`
	// SecurityToken STS 临时凭据，可选
	SecurityToken string `json:"security_token"`
	BucketName    string `json:"bucket_name"`
	// Region 七牛存储区域 / MinIO region
	Region string `json:"region"`
	// Domain 绑定的外链域名，配置后下载链接使用该域名
	Domain string `json:"domain"`
	// ObjectAcl 对象读写权限，为空时继承 Bucket 的权限
	ObjectAcl string `json:"object_acl"`
	UseHttps  Toggle `json:"use_https"`
	// LocalDir 仅 local 供应商使用，默认为 bucket 名称
	LocalDir         string   `json:"local_dir"`
	ConnectTimeout   Duration `json:"connect_timeout"`
	ReadWriteTimeout Duration `json:"read_write_timeout"`
}

// App 上传任务配置
type App struct {
	AppName     string `json:"app_name"`
	Apk         string `json:"apk"`
	ListBuckets Toggle `json:"list_buckets"`
}

// Log 日志配置
type Log struct {
	LogLevel string `json:"log_level"`
}

const (
	ProviderAliyun = "aliyun"
	ProviderMinio  = "minio"
	ProviderQiniu  = "qiniu"
	ProviderLocal  = "local"
)

// ProviderName 返回实际生效的供应商，未配置时为 aliyun
func (o *Oss) ProviderName() string {
	if o.Provider == "" {
		return ProviderAliyun
	}
	return o.Provider
}
