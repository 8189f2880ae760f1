package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Scheme is the URL scheme recognised for object storage sources.
const Scheme = "s3"

// Environment variables read by OptionsFromEnv.
const (
	EnvRegion    = "DSINSTALL_S3_REGION"
	EnvEndpoint  = "DSINSTALL_S3_ENDPOINT"
	EnvAccessKey = "DSINSTALL_S3_ACCESS_KEY"
	EnvSecretKey = "DSINSTALL_S3_SECRET_KEY"
)

const defaultRegion = "us-east-1"

// ErrObjectNotFound is returned when the bucket or key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Object identifies one object in a bucket.
type Object struct {
	Bucket string
	Key    string
}

func (o Object) String() string {
	return Scheme + "://" + o.Bucket + "/" + o.Key
}

// IsS3URL reports whether source names an object storage location.
func IsS3URL(source string) bool {
	return strings.HasPrefix(strings.ToLower(source), Scheme+"://")
}

// ParseURL splits an s3://bucket/key URL.
func ParseURL(source string) (Object, error) {
	u, err := url.Parse(source)
	if err != nil {
		return Object{}, fmt.Errorf("invalid object URL %q: %w", source, err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return Object{}, fmt.Errorf("invalid object URL %q: scheme must be %s://", source, Scheme)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Object{}, fmt.Errorf("invalid object URL %q: expected %s://bucket/key", source, Scheme)
	}
	return Object{Bucket: u.Host, Key: key}, nil
}

// Options configures the client. Empty fields fall back to SDK defaults.
type Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// OptionsFromEnv reads client options from the environment.
func OptionsFromEnv() Options {
	return Options{
		Region:    os.Getenv(EnvRegion),
		Endpoint:  os.Getenv(EnvEndpoint),
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
	}
}

// Client wraps the S3 client used to fetch LDIF sources.
type Client struct {
	s3     *s3.Client
	region string
}

// NewClient creates a new S3 client. A custom endpoint switches to path-style
// addressing, which most S3-compatible stores require.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	region := opts.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: client, region: region}, nil
}

// Region returns the region the client signs requests for.
func (c *Client) Region() string {
	return c.region
}

// Download streams obj into destPath, creating or truncating it with mode
// 0600. A partially written file is removed on failure.
func (c *Client) Download(ctx context.Context, obj Object, destPath string) (int64, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return 0, fmt.Errorf("failed to get %s: %w", obj, ErrObjectNotFound)
		}
		return 0, fmt.Errorf("failed to get %s: %w", obj, err)
	}
	defer result.Body.Close()

	// #nosec G304 -- destPath is derived from the instance LDIF directory
	f, err := os.OpenFile(filepath.Clean(destPath), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	n, err := io.Copy(f, result.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return 0, fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return n, nil
}

// Fetch downloads source into dir, naming the file after the key's base
// name, and returns the local path.
func (c *Client) Fetch(ctx context.Context, source, dir string) (string, error) {
	obj, err := ParseURL(source)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, filepath.Base(obj.Key))
	if _, err := c.Download(ctx, obj, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// Fall back to API error code checking for S3-compatible services
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket", "404":
			return true
		}
	}

	return false
}
