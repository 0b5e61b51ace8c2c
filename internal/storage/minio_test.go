package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopapi/internal/config"
)

func TestPublicObjectURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		key     string
		want    string
		wantErr bool
	}{
		{
			name: "plain base",
			base: "https://shop.s3.example.com",
			key:  "products/p1/abc-1700000000000.jpg",
			want: "https://shop.s3.example.com/products/p1/abc-1700000000000.jpg",
		},
		{
			name: "trailing slash and path prefix",
			base: "https://cdn.example.com/media/",
			key:  "products/p1/a.png",
			want: "https://cdn.example.com/media/products/p1/a.png",
		},
		{
			name: "segment needing escape",
			base: "https://cdn.example.com",
			key:  "products/p1/a b.png",
			want: "https://cdn.example.com/products/p1/a%20b.png",
		},
		{
			name:    "relative base",
			base:    "cdn.example.com",
			key:     "a.png",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := publicObjectURL(tt.base, tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMinIO_Validation(t *testing.T) {
	_, err := NewMinIO(config.MinIOConfig{})
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "credentials are required")

	_, err = NewMinIO(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket is required")
}
