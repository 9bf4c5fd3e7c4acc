package method

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sinspired/proxy-gen/config"
)

// S3Uploader 上传到 S3 兼容存储 (MinIO、R2 S3 接口等)
type S3Uploader struct {
	client *minio.Client
	bucket string
}

// NewS3Uploader 创建 S3 上传器
func NewS3Uploader(cfg *config.Config) (*S3Uploader, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.S3AccessID, cfg.S3SecretKey, ""),
		Secure:       cfg.S3UseSSL,
		BucketLookup: bucketLookup(cfg.S3BucketLookup),
	})
	if err != nil {
		return nil, fmt.Errorf("创建S3客户端失败: %w", err)
	}
	return &S3Uploader{client: client, bucket: cfg.S3Bucket}, nil
}

func bucketLookup(s string) minio.BucketLookupType {
	switch s {
	case "path":
		return minio.BucketLookupPath
	case "dns":
		return minio.BucketLookupDNS
	default:
		return minio.BucketLookupAuto
	}
}

// Upload 上传单个文件，对象名即文件名
func (s *S3Uploader) Upload(yamlData []byte, filename string) error {
	if err := validateUpload(yamlData, filename); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := s.client.PutObject(ctx, s.bucket, filename, bytes.NewReader(yamlData), int64(len(yamlData)),
		minio.PutObjectOptions{ContentType: "application/x-yaml"})
	if err != nil {
		return fmt.Errorf("S3上传失败: %w", err)
	}
	slog.Info("S3上传成功", "bucket", info.Bucket, "filename", info.Key, "size", info.Size)
	return nil
}
