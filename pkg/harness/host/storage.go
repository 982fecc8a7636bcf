package host

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"k8s.io/klog/v2"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
	"github.com/pluralsh/scan-harness/pkg/log"
)

var contentTypes = map[string]string{
	".json": "application/json",
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

// ObjectStorageOptions configures an S3 compatible bucket.
type ObjectStorageOptions struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Prefix is prepended to every object key, i.e. the build number.
	Prefix string
}

type objectStorageRegistry struct {
	ctx    context.Context
	client *minio.Client
	bucket string
	prefix string
}

// RegisterArtifact uploads the file or every file inside the directory under
// the <prefix>/<name> key.
func (in *objectStorageRegistry) RegisterArtifact(root, name string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		key := path.Join(in.prefix, name, filepath.ToSlash(rel))
		if rel == "." {
			key = path.Join(in.prefix, name)
		}

		contentType, ok := contentTypes[filepath.Ext(p)]
		if !ok {
			contentType = "application/octet-stream"
		}

		if _, err = in.client.FPutObject(in.ctx, in.bucket, key, p, minio.PutObjectOptions{ContentType: contentType}); err != nil {
			return internalerrors.NewIntegrationError("could not upload artifact "+key, err)
		}

		klog.V(log.LogLevelVerbose).InfoS("uploaded artifact", "bucket", in.bucket, "key", key)
		return nil
	})
}

// NewObjectStorageRegistry connects to the bucket and creates it when missing.
func NewObjectStorageRegistry(ctx context.Context, options ObjectStorageOptions) (ArtifactRegistry, error) {
	client, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.UseSSL,
		Region: options.Region,
	})
	if err != nil {
		return nil, internalerrors.NewConfigurationErrorf("invalid artifact storage configuration: %s", err)
	}

	exists, err := client.BucketExists(ctx, options.Bucket)
	if err != nil {
		return nil, internalerrors.NewIntegrationError("could not check artifact bucket", err)
	}

	if !exists {
		if err = client.MakeBucket(ctx, options.Bucket, minio.MakeBucketOptions{Region: options.Region}); err != nil {
			return nil, internalerrors.NewIntegrationError("could not create artifact bucket", err)
		}
	}

	return &objectStorageRegistry{
		ctx:    ctx,
		client: client,
		bucket: options.Bucket,
		prefix: options.Prefix,
	}, nil
}
