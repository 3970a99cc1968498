package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// DumpSource wraps S3/R2 access for pre-staged OSM dumps. Enumerating
// which dump to fetch is a crawler concern external to this core;
// this client only ever downloads one named object.
type DumpSource struct {
	client     *s3.Client
	downloader *manager.Downloader
	bucket     string
	bucketPath string
}

// NewDumpSource creates a new S3 client pointed at an R2-compatible endpoint.
func NewDumpSource(cfg S3Config) (*DumpSource, error) {
	logger := slog.With("endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	logger.Info("initializing dump source client")

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &smithy.GenericAPIError{Code: "UnknownEndpoint"}
	})

	httpClient := &http.Client{Timeout: 5 * time.Minute}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithHTTPClient(httpClient),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	logger.Info("dump source client initialized successfully")

	return &DumpSource{
		client:     s3Client,
		downloader: manager.NewDownloader(s3Client),
		bucket:     cfg.Bucket,
		bucketPath: cfg.BucketPath,
	}, nil
}

// FetchDump downloads a pre-staged dump object into localPath, creating
// parent directories as needed. The caller supplies the object key
// (e.g. "region.osm.pbf"); this client never enumerates bucket contents.
func (s *DumpSource) FetchDump(ctx context.Context, key, localPath string) (int64, error) {
	logger := slog.With("key", key, "local_path", localPath)
	logger.Info("fetching staged dump")

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create destination directory: %w", err)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create local file: %w", err)
	}
	defer file.Close()

	s3Key := filepath.Join(s.bucketPath, key)
	n, err := s.downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		logger.Error("download failed", "error", err)
		return 0, fmt.Errorf("failed to download dump: %w", err)
	}

	logger.Info("dump fetched", "bytes", n)
	return n, nil
}
