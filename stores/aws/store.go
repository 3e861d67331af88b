package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/core"
)

const (
	metadataKey  = "metadata.json"
	imagesPrefix = "images"
)

// objectAPI is the subset of the S3 client used by the store.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type metadata struct {
	Designs []*core.Design `json:"designs"`
}

type s3Store struct {
	s3Client objectAPI
	bucket   string
	// mu serialises metadata rewrites from this process only.
	mu sync.Mutex
}

// NewStore creates a new S3-based store.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	return newStoreWithClient(s3.NewFromConfig(cfg), bucketName)
}

func newStoreWithClient(client objectAPI, bucketName string) *s3Store {
	return &s3Store{
		s3Client: client,
		bucket:   bucketName,
	}
}

func (s *s3Store) readMetadata(ctx context.Context) (*metadata, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(metadataKey),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return &metadata{Designs: []*core.Design{}}, nil
		}
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var md metadata
	if err := json.Unmarshal(data, &md); err != nil {
		logrus.WithError(err).Warn("Failed to parse metadata object, starting from an empty collection")
		return &metadata{Designs: []*core.Design{}}, nil
	}
	if md.Designs == nil {
		md.Designs = []*core.Design{}
	}
	return &md, nil
}

func (s *s3Store) List(ctx context.Context) ([]*core.Design, error) {
	md, err := s.readMetadata(ctx)
	if err != nil {
		return nil, err
	}
	return md.Designs, nil
}

func (s *s3Store) Get(ctx context.Context, id string) (*core.Design, error) {
	md, err := s.readMetadata(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range md.Designs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, core.ErrDesignNotFound
}

func (s *s3Store) Prepend(ctx context.Context, design *core.Design) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	md, err := s.readMetadata(ctx)
	if err != nil {
		return err
	}
	md.Designs = append([]*core.Design{design}, md.Designs...)

	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(metadataKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to save design %s: %w", design.ID, err)
	}

	logrus.WithFields(logrus.Fields{"design_id": design.ID, "bucket": s.bucket}).Info("Design saved successfully")
	return nil
}

func (s *s3Store) getImageKey(name string) (string, error) {
	if err := core.ValidateImageName(name); err != nil {
		return "", err
	}
	return path.Join(imagesPrefix, name), nil
}

func (s *s3Store) PutImage(ctx context.Context, name string, data []byte) error {
	key, err := s.getImageKey(name)
	if err != nil {
		return err
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload image %s: %w", name, err)
	}
	return nil
}

func (s *s3Store) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	key, err := s.getImageKey(name)
	if err != nil {
		return nil, err
	}

	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("image %s: %w", name, core.ErrImageNotFound)
		}
		return nil, fmt.Errorf("failed to get image %s: %w", name, err)
	}
	return resp.Body, nil
}
