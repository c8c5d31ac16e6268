package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3manager.UploadInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), in, opts...)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.input = in
	f.body = string(b)
	return &s3manager.UploadOutput{
		Location: "https://" + aws.StringValue(in.Bucket) + ".s3.amazonaws.com/" + aws.StringValue(in.Key),
	}, nil
}

var at = time.Date(2024, 3, 5, 7, 8, 9, 0, time.FixedZone("WIB", 7*3600))

func TestKey(t *testing.T) {
	assert.Equal(t, "laporan-vps-20240305T000809Z.pdf", Key("", at))
	assert.Equal(t, "reports/dadas/laporan-vps-20240305T000809Z.pdf", Key("reports/dadas", at))
}

func TestUpload(t *testing.T) {
	up := &fakeUploader{}
	a := NewWithUploader("bucket", "/reports/", up)
	a.now = func() time.Time { return at }

	loc, err := a.Upload(context.Background(), strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.s3.amazonaws.com/reports/laporan-vps-20240305T000809Z.pdf", loc)
	assert.Equal(t, "application/pdf", aws.StringValue(up.input.ContentType))
	assert.Equal(t, "%PDF-1.3", up.body)
}

func TestUpload_Error(t *testing.T) {
	up := &fakeUploader{err: errors.New("access denied")}
	a := NewWithUploader("bucket", "", up)

	_, err := a.Upload(context.Background(), strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "s3://bucket/laporan-vps-")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New("", "", "")
	assert.Error(t, err)
}
