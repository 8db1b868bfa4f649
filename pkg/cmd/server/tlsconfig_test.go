package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyPair(t *testing.T, certFile, keyFile, cn string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDer, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(keyFile,
		pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDer}), 0o600))
	require.NoError(t, os.WriteFile(certFile,
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
}

func commonName(t *testing.T, cfg *tls.Config) string {
	t.Helper()
	cert, err := cfg.GetCertificate(&tls.ClientHelloInfo{})
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return leaf.Subject.CommonName
}

func TestNewTLSConfig(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "tls.crt")
	keyFile := filepath.Join(dir, "tls.key")

	t.Run("disabled without key pair", func(t *testing.T) {
		cfg, err := newTLSConfig(context.Background(), "", "", "")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})
	t.Run("missing files", func(t *testing.T) {
		_, err := newTLSConfig(context.Background(), certFile, keyFile, "")
		assert.Error(t, err)
	})
	t.Run("reload on change", func(t *testing.T) {
		writeKeyPair(t, certFile, keyFile, "first")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cfg, err := newTLSConfig(ctx, certFile, keyFile, "")
		require.NoError(t, err)
		assert.Equal(t, "first", commonName(t, cfg))
		assert.Nil(t, cfg.ClientCAs)

		writeKeyPair(t, certFile, keyFile, "second")
		assert.Eventually(t, func() bool {
			return commonName(t, cfg) == "second"
		}, 5*time.Second, 20*time.Millisecond)
	})
	t.Run("client ca", func(t *testing.T) {
		cfg, err := newTLSConfig(context.Background(), certFile, keyFile, certFile)
		require.NoError(t, err)
		assert.NotNil(t, cfg.ClientCAs)
		assert.Equal(t, tls.VerifyClientCertIfGiven, cfg.ClientAuth)

		_, err = newTLSConfig(context.Background(), certFile, keyFile, keyFile)
		assert.Error(t, err)
	})
}
