package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/studysync/internal/common"
	sc "github.com/dmitrijs2005/studysync/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AttachmentService hands out presigned object storage URLs. Objects live
// under a per-owner prefix and owners can only read their own.
type AttachmentService struct {
	config *sc.Config
	now    func() time.Time
}

func NewAttachmentService(config *sc.Config) *AttachmentService {
	return &AttachmentService{config: config, now: time.Now}
}

func ownerPrefix(ownerID string) string {
	return "owners/" + ownerID + "/"
}

// StorageKey returns a fresh object key for ownerID:
// owners/<owner>/<yyyy>/<mm>/<dd>/<uuid>.
func StorageKey(ownerID string, t time.Time) string {
	return fmt.Sprintf("%s%04d/%02d/%02d/%s", ownerPrefix(ownerID), t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a new storage key for ownerID and a URL that
// accepts a PUT of its content.
func (s *AttachmentService) PresignUpload(ctx context.Context, ownerID string) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := StorageKey(ownerID, s.now().UTC())

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignDownload returns a GET URL for key, which must belong to ownerID.
func (s *AttachmentService) PresignDownload(ctx context.Context, ownerID, key string) (string, error) {
	if !strings.HasPrefix(key, ownerPrefix(ownerID)) || strings.Contains(key, "..") {
		return "", common.ErrorForbidden
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
