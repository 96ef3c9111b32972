package filestorage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ai-interview-backend/config"
)

// Provider — хранилище файлов сессии: видеоответы и резюме
type Provider interface {
	UploadVideo(ctx context.Context, sessionID, questionID string, fileReader io.Reader, fileSize int64, contentType string) (fileID string, err error)
	UploadResume(ctx context.Context, sessionID string, fileReader io.Reader, fileSize int64) (fileID string, err error)
	// GetFileObject отдаёт поток объекта, закрытие — на вызывающем
	GetFileObject(ctx context.Context, fileID string) (io.ReadCloser, error)
	MakeBucket(ctx context.Context) error
}

func NewInstance(cfg config.S3Config) (Provider, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL != nil && *cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка подключения к s3")
	}
	return &impl{
		s3client:   minioClient,
		bucketName: cfg.BucketName,
	}, nil
}

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i impl) UploadVideo(ctx context.Context, sessionID, questionID string, fileReader io.Reader, fileSize int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "video/webm"
	}
	fileID := fmt.Sprintf("interviews/%s/answers/%s/%s", sessionID, questionID, uuid.NewString())
	return i.putObject(ctx, fileID, fileReader, fileSize, contentType)
}

func (i impl) UploadResume(ctx context.Context, sessionID string, fileReader io.Reader, fileSize int64) (string, error) {
	fileID := fmt.Sprintf("interviews/%s/resume/%s", sessionID, uuid.NewString())
	return i.putObject(ctx, fileID, fileReader, fileSize, "application/octet-stream")
}

func (i impl) putObject(ctx context.Context, fileID string, fileReader io.Reader, fileSize int64, contentType string) (string, error) {
	_, err := i.s3client.PutObject(ctx, i.bucketName, fileID, fileReader, fileSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "ошибка загрузки файла в s3 (%s)", fileID)
	}
	log.
		WithField("file_id", fileID).
		WithField("size", fileSize).
		Debug("файл сохранён в s3")
	return fileID, nil
}

func (i impl) GetFileObject(ctx context.Context, fileID string) (io.ReadCloser, error) {
	object, err := i.s3client.GetObject(ctx, i.bucketName, fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения файла из s3 (%s)", fileID)
	}
	return object, nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
}
