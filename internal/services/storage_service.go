// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/procurex/orders-backend/internal/config"
)

// StorageService persists price-list export artifacts. With AWS credentials
// configured the files go to S3; otherwise they land in the local export
// directory, which is what development runs on.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type StoredFile struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Local filesystem storage for development
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// StoreExport writes a rendered price list and returns where it ended up.
// The key embeds the shop name, the date and a short random suffix so
// successive exports never overwrite each other.
func (s *StorageService) StoreExport(shopName string, data []byte) (*StoredFile, error) {
	key := s.generateKey(shopName)

	if s.s3Client != nil {
		return s.storeToS3(key, data)
	}
	return s.storeToLocal(key, data)
}

func (s *StorageService) storeToS3(key string, data []byte) (*StoredFile, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/yaml"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &StoredFile{
		URL:  s.getS3URL(key),
		Key:  key,
		Size: int64(len(data)),
	}, nil
}

func (s *StorageService) storeToLocal(key string, data []byte) (*StoredFile, error) {
	path := filepath.Join(s.config.Export.Dir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &StoredFile{
		URL:  fmt.Sprintf("%s/exports/%s", s.config.Site.BaseURL, key),
		Key:  key,
		Size: int64(len(data)),
	}, nil
}

func (s *StorageService) DeleteExport(key string) error {
	if s.s3Client == nil {
		return os.Remove(filepath.Join(s.config.Export.Dir, key))
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GeneratePresignedURL hands out a time-limited download link for an S3
// artifact.
func (s *StorageService) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

func (s *StorageService) generateKey(shopName string) string {
	id := uuid.New()
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s_%s.yaml", sanitizeFileName(shopName), timestamp, id.String()[:8])
}

func (s *StorageService) getS3URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func sanitizeFileName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "shop"
	}
	return string(out)
}
