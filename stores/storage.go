package stores

import (
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/config"
	"github.com/tristangrace/uispin/core"
	"github.com/tristangrace/uispin/stores/aws"
	"github.com/tristangrace/uispin/stores/filesystem"
	"github.com/tristangrace/uispin/stores/memory"
	"github.com/tristangrace/uispin/stores/sqlite"
)

// Store is a union interface that includes all store types.
type Store interface {
	core.DesignStore
	core.ImageStore
}

func GetStore(cfg config.StorageConfig) Store {
	var store Store

	storageField := logrus.Fields{
		"storageType": cfg.Type,
	}

	switch cfg.Type {
	case "memory":
		store = memory.NewStore()
	case "sqlite":
		storageField["dataSourceName"] = cfg.DataSourceName
		store = sqlite.NewStore(cfg.DataSourceName)
	case "s3":
		if cfg.S3Bucket == "" {
			logrus.Fatal("S3_BUCKET_NAME environment variable must be set for s3 storage type")
		}
		storageField["bucketName"] = cfg.S3Bucket
		store = aws.NewStore(cfg.S3Bucket)
	default:
		storageField["storageType"] = "filesystem"
		storageField["basePath"] = cfg.LocalPath
		store = filesystem.NewStore(cfg.LocalPath)
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
