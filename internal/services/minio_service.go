package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaService stores avatars and program logos in object storage and hands
// out presigned GET URLs for display.
type MediaService interface {
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadProgramLogo(ctx context.Context, orgID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectName string) error
	EnsureBucket(ctx context.Context) error
}

type minioMediaService struct {
	client *minio.Client
	bucket string
}

var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

func NewMediaService(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (MediaService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioMediaService{client: client, bucket: bucket}, nil
}

// UploadAvatar stores a user avatar and returns its object name. One object
// per user; a re-upload replaces the previous avatar.
func (m *minioMediaService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("unsupported image type: %s", contentType)
	}
	objectName := "avatars/" + userID.String() + imageExt(filename)
	if err := m.put(ctx, objectName, reader, size, contentType); err != nil {
		return "", err
	}
	return objectName, nil
}

// UploadProgramLogo stores an organization's program logo.
func (m *minioMediaService) UploadProgramLogo(ctx context.Context, orgID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("unsupported image type: %s", contentType)
	}
	objectName := "logos/" + orgID.String() + imageExt(filename)
	if err := m.put(ctx, objectName, reader, size, contentType); err != nil {
		return "", err
	}
	return objectName, nil
}

func (m *minioMediaService) put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioMediaService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioMediaService) Delete(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
}

func (m *minioMediaService) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func imageExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".svg":
		return ext
	default:
		return ".jpg"
	}
}
