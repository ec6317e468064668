package redis

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadconversion/internal/pkg/config"
)

func generateSelfSignedCert(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"Lead Conversion Test"}},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)

	certOut := &bytes.Buffer{}
	require.NoError(t, pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: derBytes}))

	keyOut := &bytes.Buffer{}
	require.NoError(t, pem.Encode(keyOut, &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}))

	return certOut.Bytes(), keyOut.Bytes()
}

func TestBuildTLSConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("default config without cert content", func(t *testing.T) {
		tlsConfig, err := buildTLSConfig(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, tlsConfig.RootCAs)
		assert.Nil(t, tlsConfig.Certificates)
	})

	t.Run("CA certificate only", func(t *testing.T) {
		caCert, _ := generateSelfSignedCert(t)

		tlsConfig, err := buildTLSConfig(ctx, config.RedisConfig{CertContent: string(caCert)})
		require.NoError(t, err)
		assert.NotNil(t, tlsConfig.RootCAs)
		assert.Nil(t, tlsConfig.Certificates)
	})

	t.Run("client key pair", func(t *testing.T) {
		cert, key := generateSelfSignedCert(t)

		tlsConfig, err := buildTLSConfig(ctx, config.RedisConfig{CertContent: string(cert) + "\n" + string(key)})
		require.NoError(t, err)
		assert.Len(t, tlsConfig.Certificates, 1)
	})

	t.Run("invalid content", func(t *testing.T) {
		_, err := buildTLSConfig(ctx, config.RedisConfig{CertContent: "this is not a valid cert"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "neither a CA certificate nor a client key pair")
	})
}

func TestConnectToRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("connects without TLS", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		newClient := func(opt *redis.Options) *redis.Client {
			assert.Nil(t, opt.TLSConfig)
			assert.Equal(t, "localhost:6379", opt.Addr)
			return db
		}
		mock.ExpectPing().SetVal("PONG")

		redisClient, err := ConnectToRedis(ctx, config.RedisConfig{Addr: "localhost:6379"}, newClient)
		require.NoError(t, err)
		assert.NotNil(t, redisClient.Client)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when ping fails", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))

		redisClient, err := ConnectToRedis(ctx, config.RedisConfig{Addr: "localhost:6379"},
			func(*redis.Options) *redis.Client { return db })
		require.Error(t, err)
		assert.Nil(t, redisClient)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("sets TLS config when enabled", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")

		_, err := ConnectToRedis(ctx, config.RedisConfig{Addr: "localhost:6379", EnableTLS: true},
			func(opt *redis.Options) *redis.Client {
				require.NotNil(t, opt.TLSConfig)
				return db
			})
		require.NoError(t, err)
	})

	t.Run("fails on invalid TLS content", func(t *testing.T) {
		_, err := ConnectToRedis(ctx, config.RedisConfig{EnableTLS: true, CertContent: "garbage"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build TLS config")
	})

	t.Run("connects to a real server with the default constructor", func(t *testing.T) {
		server := miniredis.RunT(t)

		redisClient, err := ConnectToRedis(ctx, config.RedisConfig{Addr: server.Addr()}, nil)
		require.NoError(t, err)
		assert.NoError(t, redisClient.Close())
	})
}

func TestRedisClient_CloseNil(t *testing.T) {
	var client *RedisClient
	assert.NoError(t, client.Close())
}
