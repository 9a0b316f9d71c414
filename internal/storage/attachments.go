// Package storage lists incident attachments held in blob storage.
// Attachments for an incident live under a shared key prefix of the
// form <prefix>/<incident_id>_<filename>.
package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3API is the slice of the S3 client the attachment store needs.
// Satisfied by *s3.Client.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// AttachmentStore lists the attachment filenames of an incident.
type AttachmentStore struct {
	api    S3API
	bucket string
	prefix string
	logger *zap.Logger
}

// NewAttachmentStore creates an AttachmentStore from an AWS config.
// prefix is the key prefix under which attachments are stored, e.g.
// "incidents-files".
func NewAttachmentStore(cfg aws.Config, bucket, prefix string, logger *zap.Logger) *AttachmentStore {
	return &AttachmentStore{
		api:    s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// NewAttachmentStoreWithAPI creates an AttachmentStore with an
// explicit API implementation, for tests.
func NewAttachmentStoreWithAPI(api S3API, bucket, prefix string, logger *zap.Logger) *AttachmentStore {
	return &AttachmentStore{api: api, bucket: bucket, prefix: prefix, logger: logger}
}

// ForIncident returns the basenames of all objects whose key begins
// with <prefix>/<incidentID>_.
func (s *AttachmentStore) ForIncident(ctx context.Context, incidentID string) ([]string, error) {
	keyPrefix := fmt.Sprintf("%s/%s_", s.prefix, incidentID)

	out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(keyPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("listing attachments for %s: %w", incidentID, err)
	}

	attachments := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key == nil {
			continue
		}
		attachments = append(attachments, path.Base(*obj.Key))
	}

	s.logger.Debug("attachments listed",
		zap.String("incident_id", incidentID),
		zap.Int("count", len(attachments)))

	return attachments, nil
}
