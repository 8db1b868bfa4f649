package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgresql://user:pw@db:5433/racemetrics", "db:5433"},
		{"postgresql://user:pw@db/racemetrics", "db:5432"},
		{"postgres://localhost/racemetrics?sslmode=disable", "localhost:5432"},
		{"mysql://db/racemetrics", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestExtractFromNatsURL(t *testing.T) {
	assert.Equal(t, "nats:4222", ExtractFromNatsURL("nats://nats"))
	assert.Equal(t, "broker:4333", ExtractFromNatsURL("nats://u:p@broker:4333"))
	assert.Equal(t, "", ExtractFromNatsURL(""))
}

func TestWaitForTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, WaitForTCP(ctx, addr))

	l.Close()
	ctx, cancel = context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	assert.Error(t, WaitForTCP(ctx, addr))
}
