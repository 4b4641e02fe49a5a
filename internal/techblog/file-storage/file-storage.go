// Пакет предоставляет интерфейс и реализацию объектного хранилища изображений статей на Minio (S3).
// Изображения лежат под префиксом медиа в папках год/месяц, ссылки на них строятся от публичного адреса бакета.
//
// Основные возможности:
//   - Загрузка изображений с безопасным именем в папку текущего месяца.
//   - Рекурсивный список объектов под префиксом.
//   - Удаление объектов.
//   - Построение публичных ссылок.
package filestorage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrNotFound = errors.New("object not found")

type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

type FileStorage interface {
	SaveReader(ctx context.Context, reader io.Reader, fileSize int64, name string, contentType string) error
	Delete(ctx context.Context, name string) error
	Exist(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, prefix string, fn func(FileInfo) error) error
}

type MinioStorage struct {
	client     *minio.Client
	bucketName string
}

func (s *MinioStorage) SaveReader(ctx context.Context, reader io.Reader, fileSize int64, name string, contentType string) error {
	_, err := s.client.PutObject(ctx,
		s.bucketName,
		name,
		reader,
		fileSize,
		minio.PutObjectOptions{ContentType: contentType, CacheControl: "max-age=3600"},
	)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		slog.Error("Upload file to minio", "name", name, "code", resp.StatusCode, "msg", resp.Message, "err", err)
	}
	return err
}

func (s *MinioStorage) Delete(ctx context.Context, name string) error {
	exist, err := s.Exist(ctx, name)
	if err != nil {
		return err
	}
	if !exist {
		return ErrNotFound
	}
	return s.client.RemoveObject(ctx, s.bucketName, name, minio.RemoveObjectOptions{})
}

func (s *MinioStorage) Exist(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucketName, name, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MinioStorage) List(ctx context.Context, prefix string, fn func(FileInfo) error) error {
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return obj.Err
		}
		if err := fn(FileInfo{
			Name:        obj.Key,
			Size:        obj.Size,
			ContentType: obj.ContentType,
			CreatedAt:   obj.LastModified,
		}); err != nil {
			return err
		}
	}
	return nil
}

func NewMinioStorage(ctx context.Context, endpoint string, accessKeyID string, secretAccessKey string, useSSL bool, bucketName string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, err
	}

	if !exists {
		// Create bucket if not exist
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioStorage{client, bucketName}, nil
}
