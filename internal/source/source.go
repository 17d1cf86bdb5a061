// Package source loads template and data bytes from local files or S3.
//
// Locations are plain paths, file:// URLs or s3://bucket/key URLs:
//
//	l := source.New(source.WithS3Config(source.S3Config{Region: "us-east-1"}))
//	markup, err := l.Read(ctx, "s3://site/templates/index.html")
//	data, err := l.LoadData(ctx, "data.yaml")
package source

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vbind/internal/errors"
)

// DefaultMaxSize is the default read limit per source.
const DefaultMaxSize = 8 << 20

// ObjectGetter is the part of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the client built for s3:// sources.
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// Loader reads sources.
type Loader struct {
	s3       ObjectGetter
	s3Config S3Config
	maxSize  int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithS3Client sets the client used for s3:// sources.
func WithS3Client(client ObjectGetter) Option {
	return func(l *Loader) {
		l.s3 = client
	}
}

// WithS3Config sets how the S3 client is built when none is given.
func WithS3Config(cfg S3Config) Option {
	return func(l *Loader) {
		l.s3Config = cfg
	}
}

// WithMaxSize sets the read limit per source.
func WithMaxSize(n int64) Option {
	return func(l *Loader) {
		l.maxSize = n
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Read returns the bytes at src.
func (l *Loader) Read(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "s3://"):
		bucket, key, err := ParseS3URL(src)
		if err != nil {
			return nil, err
		}
		return l.readS3(ctx, src, bucket, key)
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, errors.New("E031").WithTarget(src).Wrap(err)
		}
		return l.readFile(u.Path)
	case strings.Contains(src, "://"):
		return nil, errors.New("E031").
			WithTarget(src).
			WithSuggestion("Use a local path or an s3://bucket/key URL")
	default:
		return l.readFile(src)
	}
}

func (l *Loader) readFile(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.New("E030").WithTarget(p).Wrap(err)
		}
		return nil, errors.New("E030").WithTarget(p).WithDetail(err.Error()).Wrap(err)
	}
	defer f.Close()
	return l.readAll(p, f)
}

func (l *Loader) readS3(ctx context.Context, src, bucket, key string) ([]byte, error) {
	out, err := l.client().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("E030").WithTarget(src).Wrap(fmt.Errorf("s3 get failed: %w", err))
	}
	defer out.Body.Close()
	return l.readAll(src, out.Body)
}

func (l *Loader) readAll(target string, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, errors.New("E030").WithTarget(target).Wrap(err)
	}
	if n > l.maxSize {
		return nil, errors.New("E030").
			WithTarget(target).
			WithDetail(fmt.Sprintf("Source is larger than %d bytes", l.maxSize))
	}
	return buf.Bytes(), nil
}

func (l *Loader) client() ObjectGetter {
	if l.s3 != nil {
		return l.s3
	}
	opts := s3.Options{
		Region:       l.s3Config.Region,
		UsePathStyle: l.s3Config.PathStyle,
		Credentials:  envCredentials(),
	}
	if opts.Region == "" {
		opts.Region = os.Getenv("AWS_REGION")
	}
	if l.s3Config.Endpoint != "" {
		opts.BaseEndpoint = aws.String(l.s3Config.Endpoint)
	}
	l.s3 = s3.New(opts)
	return l.s3
}

// envCredentials reads static credentials from the standard AWS environment
// variables, falling back to anonymous access for public buckets.
func envCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	})
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(src string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(src, "s3://")
	if !ok {
		return "", "", errors.New("E031").WithTarget(src)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("E031").
			WithTarget(src).
			WithSuggestion("S3 sources look like s3://bucket/path/to/key")
	}
	return bucket, key, nil
}

// LoadData reads src and decodes it by extension.
func (l *Loader) LoadData(ctx context.Context, src string) (map[string]any, error) {
	raw, err := l.Read(ctx, src)
	if err != nil {
		return nil, err
	}
	return Decode(src, raw)
}

// Decode parses data as JSON (.json) or YAML (.yaml, .yml). The top level
// must be a mapping.
func Decode(name string, raw []byte) (map[string]any, error) {
	ext := strings.ToLower(path.Ext(name))
	var (
		v   any
		err error
	)
	switch ext {
	case ".json":
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &v)
	default:
		return nil, errors.New("E021").
			WithTarget(name).
			WithDetail("Unknown extension " + `"` + ext + `"`)
	}
	if err != nil {
		return nil, errors.New("E021").WithTarget(name).WithDetail(err.Error()).Wrap(err)
	}

	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("E021").
			WithTarget(name).
			WithDetail(fmt.Sprintf("Top level is %T, not a mapping", v))
	}
	return m, nil
}
