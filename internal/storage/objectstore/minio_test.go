package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/invoicer/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	_, err := NewMinIO(config.MinIO{})
	assert.Error(t, err)

	_, err = NewMinIO(config.MinIO{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIO
		want string
	}{
		{name: "endpoint", cfg: config.MinIO{Endpoint: "localhost:9000"}, want: "http://localhost:9000/logos/"},
		{name: "ssl", cfg: config.MinIO{Endpoint: "s3.local", UseSSL: true}, want: "https://s3.local/logos/"},
		{name: "public url", cfg: config.MinIO{Endpoint: "minio:9000", PublicURL: "https://cdn.example.com/logos/"},
			want: "https://cdn.example.com/logos/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBase(tt.cfg, "logos"))
		})
	}
}

func TestMinIO_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	m, err := NewMinIO(config.MinIO{
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "logos",
	})
	require.NoError(t, err)
	require.NoError(t, m.EnsureBucket(ctx))
	require.NoError(t, m.EnsureBucket(ctx))

	body := []byte("png-bytes")
	url, err := m.Put(ctx, "logo.png", bytes.NewReader(body), int64(len(body)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("http://%s:%s/logos/logo.png", host, port.Port()), url)

	ok, err := m.Exists(ctx, url)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Delete(ctx, url))
	ok, err = m.Exists(ctx, url)
	require.NoError(t, err)
	assert.False(t, ok)
}
