package oss

import (
	"github.com/alibabacloud-go/tea/tea"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/aliyun/credentials-go/credentials"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/sober-studio/oss-apk-uploader/internal/conf"
)

var (
	_ oss.CredentialsProvider = (*credentialsProvider)(nil)
	_ oss.Credentials         = (*ossCredentials)(nil)
)

type ossCredentials struct {
	accessKeyID     string
	accessKeySecret string
	securityToken   string
}

func (c *ossCredentials) GetAccessKeyID() string     { return c.accessKeyID }
func (c *ossCredentials) GetAccessKeySecret() string { return c.accessKeySecret }
func (c *ossCredentials) GetSecurityToken() string   { return c.securityToken }

// credentialsProvider 把阿里云统一凭据适配为 OSS SDK 的 CredentialsProvider
type credentialsProvider struct {
	cred credentials.Credential
	log  *log.Helper
}

func newCredentialsProvider(c *conf.Oss, helper *log.Helper) (*credentialsProvider, error) {
	// 使用官方推荐的凭据初始化方式，配置了 SecurityToken 时使用 STS 凭据
	config := &credentials.Config{
		Type:            tea.String("access_key"),
		AccessKeyId:     tea.String(c.AccessKeyId),
		AccessKeySecret: tea.String(c.AccessKeySecret),
	}
	if c.SecurityToken != "" {
		config.Type = tea.String("sts")
		config.SecurityToken = tea.String(c.SecurityToken)
	}

	cred, err := credentials.NewCredential(config)
	if err != nil {
		return nil, err
	}
	return &credentialsProvider{cred: cred, log: helper}, nil
}

func (p *credentialsProvider) GetCredentials() oss.Credentials {
	model, err := p.cred.GetCredential()
	if err != nil {
		// 接口签名不允许返回错误，空凭据会让请求以签名错误失败
		p.log.Errorf("Failed to get Aliyun credential: %v", err)
		return &ossCredentials{}
	}
	return &ossCredentials{
		accessKeyID:     tea.StringValue(model.AccessKeyId),
		accessKeySecret: tea.StringValue(model.AccessKeySecret),
		securityToken:   tea.StringValue(model.SecurityToken),
	}
}
