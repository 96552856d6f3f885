package initializers

import (
	"context"

	"ats-backend/config"
	filestorage "ats-backend/lib/file-storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: config.Conf.S3.UseSSL,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}

	filestorage.NewHandler(minioClient, config.Conf.S3.BucketName, config.Conf.PresignTTL())
	if err = filestorage.Instance.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("S3 соединение не удалось, бакет для резюме не создан")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
