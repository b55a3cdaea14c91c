package s3

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

type mockS3 struct {
	inputs []*s3.ListObjectsV2Input
	pages  []*s3.ListObjectsV2Output
	err    error
}

func (m *mockS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	page := m.pages[0]
	m.pages = m.pages[1:]
	return page, nil
}

func objects(n int, size int64) []s3types.Object {
	out := make([]s3types.Object, n)
	for i := range out {
		out[i] = s3types.Object{Key: aws.String(fmt.Sprintf("uploads/file-%d.jpg", i)), Size: aws.Int64(size)}
	}
	return out
}

func TestListFilesMapsObjects(t *testing.T) {
	mock := &mockS3{pages: []*s3.ListObjectsV2Output{{
		Contents:              objects(2, 512),
		KeyCount:              aws.Int32(2),
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("token-2"),
	}}}
	store := NewFileStore(mock, "uploads/")

	page, err := store.ListFiles(context.Background(), "media", model.PageRequest{Limit: 2, Cursor: "token-1"})
	require.NoError(t, err)

	require.Len(t, mock.inputs, 1)
	assert.Equal(t, "media", aws.ToString(mock.inputs[0].Bucket))
	assert.Equal(t, "uploads/", aws.ToString(mock.inputs[0].Prefix))
	assert.Equal(t, int32(2), aws.ToInt32(mock.inputs[0].MaxKeys))
	assert.Equal(t, "token-1", aws.ToString(mock.inputs[0].ContinuationToken))

	require.Len(t, page.Files, 2)
	assert.Equal(t, "file-0.jpg", page.Files[0].Name)
	assert.Equal(t, int64(512), page.Files[0].SizeOriginal)
	assert.Equal(t, "token-2", page.Next)
}

func TestListFilesLastPageHasNoCursor(t *testing.T) {
	mock := &mockS3{pages: []*s3.ListObjectsV2Output{{Contents: objects(1, 1), IsTruncated: aws.Bool(false)}}}
	page, err := NewFileStore(mock, "").ListFiles(context.Background(), "media", model.PageRequest{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Next)
	assert.Nil(t, mock.inputs[0].Prefix)
}

func TestListFilesWrapsErrors(t *testing.T) {
	mock := &mockS3{err: fmt.Errorf("access denied")}
	_, err := NewFileStore(mock, "").ListFiles(context.Background(), "media", model.PageRequest{Limit: 100})
	assert.True(t, errors.HasCode(err, errors.ErrUpstream))
}
