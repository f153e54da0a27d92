package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressImageDownscales(t *testing.T) {
	out, err := CompressImage(encodePNG(t, 1600, 400), MaxImageDimension, JPEGQuality)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestCompressImageKeepsSmallImages(t *testing.T) {
	out, err := CompressImage(encodePNG(t, 120, 300), MaxImageDimension, JPEGQuality)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestCompressImageRejectsNonImages(t *testing.T) {
	_, err := CompressImage([]byte("%PDF-1.4"), MaxImageDimension, JPEGQuality)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_cv_2024", SanitizeFilename("my cv 2024.pdf"))
	assert.Equal(t, "file", SanitizeFilename("ééé.pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("resumes", "user-1", "My CV.PDF", ".PDF")
	assert.True(t, strings.HasPrefix(key, "resumes/user-1/"))
	assert.True(t, strings.HasSuffix(key, "-My_CV.pdf"))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/logos/a%20b.jpg",
		PublicURL(Config{PublicBaseURL: "https://cdn.example.com/"}, "logos/a b.jpg"))
	assert.Equal(t, "http://minio:9000/jobs/logos/x.jpg",
		PublicURL(Config{Endpoint: "http://minio:9000", Bucket: "jobs"}, "logos/x.jpg"))
	assert.Equal(t, "https://jobs.s3.us-east-1.amazonaws.com/logos/x.jpg",
		PublicURL(Config{Bucket: "jobs", Region: "us-east-1"}, "logos/x.jpg"))
}

func TestNewS3StorageRequiresEndpointForCompatibleProviders(t *testing.T) {
	for _, p := range []Provider{ProviderWasabi, ProviderMinio} {
		_, err := NewS3Storage(context.Background(), Config{Provider: p, Bucket: "jobs", Region: "us-east-1"})
		require.Error(t, err, p)
		assert.Contains(t, err.Error(), "endpoint required")
	}

	_, err := NewS3Storage(context.Background(), Config{Provider: ProviderAWS})
	assert.EqualError(t, err, "storage: bucket not configured")
}
