package filestorage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"ats-backend/models"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ObjectClient - часть minio клиента, которая нужна для работы с резюме
type ObjectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type Provider interface {
	MakeBucket(ctx context.Context) error
	ResumeLink(ctx context.Context, resumeRef string) (link string, expiresAt time.Time, err error)
}

var Instance Provider

func NewHandler(s3client ObjectClient, bucketName string, presignTTL time.Duration) {
	Instance = NewInstance(s3client, bucketName, presignTTL, time.Now)
}

func NewInstance(s3client ObjectClient, bucketName string, presignTTL time.Duration, now func() time.Time) Provider {
	if now == nil {
		now = time.Now
	}
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &impl{
		s3client:   s3client,
		bucketName: bucketName,
		presignTTL: presignTTL,
		now:        now,
	}
}

type impl struct {
	s3client   ObjectClient
	bucketName string
	presignTTL time.Duration
	now        func() time.Time
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

	err = i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	log.WithField("bucket", i.bucketName).Info("создан бакет для резюме")
	return nil
}

// ResumeLink возвращает временную ссылку на файл резюме
func (i impl) ResumeLink(ctx context.Context, resumeRef string) (string, time.Time, error) {
	objectName := strings.TrimPrefix(strings.TrimSpace(resumeRef), "/")
	if objectName == "" {
		return "", time.Time{}, models.NotFoundError{Entity: "резюме", ID: resumeRef}
	}
	_, err := i.s3client.StatObject(ctx, i.bucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", time.Time{}, models.NotFoundError{Entity: "резюме", ID: resumeRef}
		}
		return "", time.Time{}, errors.Wrap(err, "ошибка получения файла резюме")
	}
	expiresAt := i.now().Add(i.presignTTL)
	link, err := i.s3client.PresignedGetObject(ctx, i.bucketName, objectName, i.presignTTL, url.Values{})
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "ошибка формирования ссылки на резюме")
	}
	return link.String(), expiresAt, nil
}
