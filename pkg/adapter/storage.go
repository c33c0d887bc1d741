package adapter

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Storage reads and writes export objects in a Cloud Storage bucket
type Storage interface {
	// Put returns a writer that uploads the object when closed
	Put(ctx context.Context, object string) (io.WriteCloser, error)
	// Get opens the object for reading
	Get(ctx context.Context, object string) (io.ReadCloser, error)
	Close() error
}

// storageClient implements Storage interface using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client bound to bucketName
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Put(ctx context.Context, object string) (io.WriteCloser, error) {
	writer := s.client.Bucket(s.bucketName).Object(object).NewWriter(ctx)
	writer.ContentType = contentTypeOf(object)
	return writer, nil
}

func (s *storageClient) Get(ctx context.Context, object string) (io.ReadCloser, error) {
	reader, err := s.client.Bucket(s.bucketName).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage",
			goerr.V("bucket", s.bucketName),
			goerr.V("object", object))
	}

	return reader, nil
}

func (s *storageClient) Close() error {
	return s.client.Close()
}

func contentTypeOf(object string) string {
	switch {
	case strings.HasSuffix(object, ".json"):
		return "application/json"
	case strings.HasSuffix(object, ".csv"):
		return "text/csv"
	case strings.HasSuffix(object, ".yaml"), strings.HasSuffix(object, ".yml"):
		return "application/yaml"
	default:
		return "text/plain"
	}
}

const gcsScheme = "gs://"

// ObjectURL is a parsed gs://bucket/object location
type ObjectURL struct {
	Bucket string
	Object string
}

func (u ObjectURL) String() string {
	return gcsScheme + u.Bucket + "/" + u.Object
}

// IsObjectURL returns true if s uses the gs:// scheme
func IsObjectURL(s string) bool {
	return strings.HasPrefix(s, gcsScheme)
}

// ParseObjectURL parses gs://bucket/object. Both parts are required.
func ParseObjectURL(s string) (ObjectURL, error) {
	if !IsObjectURL(s) {
		return ObjectURL{}, goerr.New("object URL must start with gs://", goerr.V("url", s))
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(s, gcsScheme), "/")
	if !ok || bucket == "" || object == "" {
		return ObjectURL{}, goerr.New("object URL must be gs://bucket/object", goerr.V("url", s))
	}
	return ObjectURL{Bucket: bucket, Object: object}, nil
}
