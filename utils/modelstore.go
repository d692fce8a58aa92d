// utils/modelstore.go
package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"snake-analytics/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ModelStore is the part of the S3 API the model sync needs.
type ModelStore interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ParseModelURI splits "s3://bucket/prefix" into its parts. ok is false for
// anything that is not an s3 URI, i.e. a local directory.
func ParseModelURI(path string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(path, "s3://")
	if !found {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, strings.Trim(prefix, "/"), true
}

// NewModelStore builds an S3 client for the configured model store. A custom
// endpoint (R2, MinIO) switches to path-style addressing.
func NewModelStore(ctx context.Context, cfg *config.Settings) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.ModelStoreRegion),
	}
	if cfg.ModelStoreAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.ModelStoreAccessKeyID, cfg.ModelStoreSecretAccessKey, "",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load model store config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ModelStoreEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.ModelStoreEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ResolveModelPath returns the local directory holding the analytics models.
// A local MODEL_PATH is returned as is; an s3:// one is mirrored into
// MODEL_CACHE_DIR first.
func ResolveModelPath(ctx context.Context, cfg *config.Settings) (string, error) {
	bucket, prefix, ok := ParseModelURI(cfg.ModelPath)
	if !ok {
		return cfg.ModelPath, nil
	}

	store, err := NewModelStore(ctx, cfg)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(cfg.ModelCacheDir, bucket, filepath.FromSlash(prefix))
	n, err := SyncModels(ctx, store, bucket, prefix, dest)
	if err != nil {
		return "", err
	}
	log.Printf("📦 Model store synced: %d files from %s into %s", n, cfg.ModelPath, dest)
	return dest, nil
}

// SyncModels downloads every object under prefix into dest and returns how
// many files were written. Files already present with the same size are
// skipped.
func SyncModels(ctx context.Context, store ModelStore, bucket, prefix, dest string) (int, error) {
	if err := os.MkdirAll(dest, os.ModePerm); err != nil {
		return 0, err
	}

	listPrefix := prefix
	if listPrefix != "" {
		listPrefix += "/"
	}

	written := 0
	pages := s3.NewListObjectsV2Paginator(store, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(listPrefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return written, fmt.Errorf("failed to list s3://%s/%s: %w", bucket, listPrefix, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, listPrefix)
			if rel == "" || strings.HasSuffix(key, "/") {
				continue
			}

			path := filepath.Join(dest, filepath.FromSlash(rel))
			// Keys must not escape the cache directory.
			if !strings.HasPrefix(path, filepath.Clean(dest)+string(os.PathSeparator)) {
				return written, fmt.Errorf("illegal object key: %s", key)
			}

			if info, err := os.Stat(path); err == nil && obj.Size != nil && info.Size() == *obj.Size {
				continue
			}
			if err := downloadObject(ctx, store, bucket, key, path); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

func downloadObject(ctx context.Context, store ModelStore, bucket, key, path string) error {
	out, err := store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	// Write next to the target and rename so a failed download leaves no
	// partial model behind.
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
