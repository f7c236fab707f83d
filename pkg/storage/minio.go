package stores

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"whistleline/pkg/errors"
	"whistleline/pkg/util"
)

// MinioStore keeps attachments in an object-storage bucket instead of
// the local disk. Selected with STORAGE_BACKEND=minio; note the public
// static upload prefix is only available with the disk backend.
type MinioStore struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL"`
}

func NewMinioStore() *MinioStore {
	return &MinioStore{
		Endpoint:  util.GetEnv("MINIO_ENDPOINT"),
		AccessKey: util.GetEnv("MINIO_ACCESS_KEY"),
		SecretKey: util.GetEnv("MINIO_SECRET_KEY"),
		Bucket:    util.GetEnv("MINIO_BUCKET"),
		UseSSL:    util.GetBoolEnv("MINIO_USE_SSL"),
	}
}

func (m *MinioStore) client() (*minio.Client, error) {
	return minio.New(m.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(m.AccessKey, m.SecretKey, ""),
		Secure: m.UseSSL,
	})
}

func (m *MinioStore) Init(categories ...string) error {
	cli, err := m.client()
	if err != nil {
		return errors.Wrap(errors.CodeStorage, err, "minio client")
	}
	ctx := context.Background()
	exists, err := cli.BucketExists(ctx, m.Bucket)
	if err != nil {
		return errors.Wrap(errors.CodeStorage, err, "check bucket")
	}
	if !exists {
		if err := cli.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
			return errors.Wrap(errors.CodeStorage, err, "create bucket")
		}
	}
	return nil
}

func (m *MinioStore) Save(ctx context.Context, category string, up Upload, opts SaveOptions) (*StoredFile, error) {
	if err := checkUpload(up, opts); err != nil {
		return nil, err
	}
	cli, err := m.client()
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, err, "minio client")
	}
	src, err := up.Open()
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, err, "open upload")
	}
	defer src.Close()

	key := category + "/" + storageName(up.Name)
	info, err := cli.PutObject(ctx, m.Bucket, key, src, up.Size, minio.PutObjectOptions{
		ContentType: up.ContentType,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, err, "put object")
	}
	return &StoredFile{
		Path:         key,
		Size:         info.Size,
		MimeType:     up.ContentType,
		OriginalName: up.Name,
	}, nil
}

func (m *MinioStore) Remove(ctx context.Context, relPath string) error {
	cli, err := m.client()
	if err != nil {
		return errors.Wrap(errors.CodeStorage, err, "minio client")
	}
	key := strings.TrimPrefix(relPath, "/")
	if err := cli.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return errors.Wrap(errors.CodeStorage, err, "remove object")
	}
	return nil
}
