package assets

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/resume"
)

type fakeObjects struct {
	objects map[string][]byte
	err     error
}

func (f *fakeObjects) ReadObject(_ context.Context, key string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	v, ok := f.objects[key]
	if !ok {
		return nil, "", minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return v, "image/jpeg", nil
}

func docWithPhoto(p string) resume.Document {
	d := resume.Template()
	d.PersonalInfo.Photo = p
	return d
}

func TestPhotoKey(t *testing.T) {
	key := PhotoKey("owner-1", ".jpg")
	assert.True(t, strings.HasPrefix(key, "photos/owner-1/"))
	assert.True(t, ValidPhotoKey("owner-1", key))
	assert.False(t, ValidPhotoKey("owner-2", key))
	assert.False(t, ValidPhotoKey("owner-1", "photos/owner-1/../x.png"))
	assert.False(t, ValidPhotoKey("owner-1", "photos/owner-1/x.gif"))

	ext, ok := PhotoExt("image/PNG")
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)
	_, ok = PhotoExt("application/pdf")
	assert.False(t, ok)
}

func TestIsObjectKey(t *testing.T) {
	assert.False(t, IsObjectKey(""))
	assert.False(t, IsObjectKey("data:image/png;base64,AAAA"))
	assert.False(t, IsObjectKey("https://cdn.example.com/a.png"))
	assert.True(t, IsObjectKey("photos/o/a.png"))
}

func TestInlinePhoto(t *testing.T) {
	ctx := context.Background()
	key := "photos/o/a.jpg"
	r := &fakeObjects{objects: map[string][]byte{key: []byte("img")}}

	in := docWithPhoto(key)
	out, missing, err := InlinePhoto(ctx, r, "o", in)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Equal(t, "data:image/jpeg;base64,aW1n", out.PersonalInfo.Photo)
	assert.Equal(t, key, in.PersonalInfo.Photo)
}

func TestInlinePhotoMissing(t *testing.T) {
	ctx := context.Background()
	r := &fakeObjects{objects: map[string][]byte{}}

	out, missing, err := InlinePhoto(ctx, r, "o", docWithPhoto("photos/o/gone.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{"photos/o/gone.png"}, missing)
	assert.Empty(t, out.PersonalInfo.Photo)

	// 不属于 owner 的键同样视为缺失
	out, missing, err = InlinePhoto(ctx, r, "o", docWithPhoto("photos/other/a.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{"photos/other/a.png"}, missing)
	assert.Empty(t, out.PersonalInfo.Photo)
}

func TestInlinePhotoPassThrough(t *testing.T) {
	d := docWithPhoto("data:image/png;base64,AAAA")
	out, missing, err := InlinePhoto(context.Background(), nil, "o", d)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, d.PersonalInfo.Photo, out.PersonalInfo.Photo)
}

func TestInlinePhotoSystemError(t *testing.T) {
	r := &fakeObjects{err: minio.ErrorResponse{Code: "NoSuchBucket"}}
	_, _, err := InlinePhoto(context.Background(), r, "o", docWithPhoto("photos/o/a.png"))
	require.Error(t, err)

	r = &fakeObjects{err: errors.New("timeout")}
	_, _, err = InlinePhoto(context.Background(), r, "o", docWithPhoto("photos/o/a.png"))
	require.Error(t, err)
}
