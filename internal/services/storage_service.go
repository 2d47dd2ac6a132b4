// internal/services/storage_service.go
package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/benepisyo/benefits-backend/internal/config"
	"github.com/benepisyo/benefits-backend/internal/models"
	"github.com/benepisyo/benefits-backend/internal/utils"
)

// StorageService uploads document files to S3 and hands back the stored
// object key. The document tables only ever hold the key, never the bytes.
type StorageService struct {
	client *s3.S3
	cfg    config.AWSConfig
}

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

const maxUploadBytes = 10 << 20 // 10 MB

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{client: s3.New(sess), cfg: cfg}, nil
}

// UploadDocument stores the file under a per-code, per-kind key and returns
// that key. Re-uploads for the same (code, kind) get fresh keys so a stale
// CDN cache never serves the replaced file.
func (s *StorageService) UploadDocument(code string, kind models.DocumentKind, header *multipart.FileHeader) (string, error) {
	if header.Size > maxUploadBytes {
		return "", fmt.Errorf("file exceeds the %d MB upload limit", maxUploadBytes>>20)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %s is not accepted", ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	nonce, err := utils.GenerateRandomString(8)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("documents/%s/%s/%d-%s%s", code, kind, time.Now().Unix(), nonce, ext)

	_, err = s.client.PutObject(&s3.PutObjectInput{
		Bucket:             aws.String(s.cfg.S3Bucket),
		Key:                aws.String(key),
		Body:               file,
		ContentType:        aws.String(contentTypeFor(ext)),
		ContentDisposition: aws.String(fmt.Sprintf(`inline; filename="%s"`, header.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document to S3: %w", err)
	}

	return key, nil
}

// DeleteObject removes a stored file. Missing objects are not an error;
// the database row is the source of truth.
func (s *StorageService) DeleteObject(key string) error {
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// FileURL resolves a stored key to a public URL, preferring the CDN.
func (s *StorageService) FileURL(key string) string {
	if key == "" {
		return ""
	}
	if s.cfg.CloudFrontURL != "" {
		return strings.TrimRight(s.cfg.CloudFrontURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.S3Bucket, s.cfg.Region, key)
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}
