// Package archive uploads exported reports to S3.
package archive

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/sirupsen/logrus"
)

const contentType = "application/pdf"

type Archive struct {
	bucket   string
	prefix   string
	uploader s3manageriface.UploaderAPI
	now      func() time.Time
}

// New builds an archive for bucket from the default AWS credential chain.
// An empty region leaves region resolution to the environment.
func New(bucket, prefix, region string) (*Archive, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	cfg := &aws.Config{MaxRetries: aws.Int(3)}
	if region != "" {
		cfg.Region = aws.String(region)
	}

	s, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}

	return NewWithUploader(bucket, prefix, s3manager.NewUploader(s)), nil
}

func NewWithUploader(bucket, prefix string, uploader s3manageriface.UploaderAPI) *Archive {
	return &Archive{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		uploader: uploader,
		now:      time.Now,
	}
}

// Key is the object key a report generated at t is stored under.
func Key(prefix string, t time.Time) string {
	name := fmt.Sprintf("laporan-vps-%s.pdf", t.UTC().Format("20060102T150405Z"))
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Upload stores body and returns its location.
func (a *Archive) Upload(ctx context.Context, body io.Reader) (string, error) {
	key := Key(a.prefix, a.now())

	out, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading report to s3://%s/%s: %w", a.bucket, key, err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": a.bucket,
		"key":    key,
	}).Info("report archived")

	return out.Location, nil
}
