package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/config"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
)

// RedisClientConstructor lets tests swap in a mocked client.
type RedisClientConstructor func(opt *redis.Options) *redis.Client

type RedisClient struct {
	Client *redis.Client
}

// ConnectToRedis dials the lock store and pings it once. A nil
// newClientFunc selects redis.NewClient.
func ConnectToRedis(
	ctx context.Context,
	cfg config.RedisConfig,
	newClientFunc RedisClientConstructor,
) (*RedisClient, error) {
	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if newClientFunc == nil {
		newClientFunc = redis.NewClient
	}

	client := newClientFunc(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.CtxError(ctx, "Redis ping failed", err, zap.String("addr", cfg.Addr))
		_ = client.Close()
		return nil, fmt.Errorf(log_messages.ErrorRedisConnection, err)
	}

	logger.CtxInfo(ctx, "Redis lock store ready",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.Bool("tls", opts.TLSConfig != nil),
	)
	return &RedisClient{Client: client}, nil
}

func clientOptions(ctx context.Context, cfg config.RedisConfig) (*redis.Options, error) {
	opts := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.ConnectTimeout,
	}
	if !cfg.EnableTLS {
		return opts, nil
	}

	tlsConfig, err := buildTLSConfig(ctx, cfg)
	if err != nil {
		logger.CtxError(ctx, "Failed to build Redis TLS config", err)
		return nil, fmt.Errorf("failed to build TLS config: %w", err)
	}
	opts.TLSConfig = tlsConfig
	return opts, nil
}

// buildTLSConfig accepts a PEM blob holding a client key pair, CA
// certificates, or both.
func buildTLSConfig(ctx context.Context, cfg config.RedisConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CertContent == "" {
		return tlsConfig, nil
	}

	pem := []byte(cfg.CertContent)
	if pair, err := tls.X509KeyPair(pem, pem); err == nil {
		tlsConfig.Certificates = []tls.Certificate{pair}
	}
	if pool := x509.NewCertPool(); pool.AppendCertsFromPEM(pem) {
		tlsConfig.RootCAs = pool
	}
	if tlsConfig.Certificates == nil && tlsConfig.RootCAs == nil {
		return nil, errors.New("redis cert_content holds neither a CA certificate nor a client key pair")
	}

	logger.CtxDebug(ctx, "Loaded Redis TLS material",
		zap.Bool("client_cert", tlsConfig.Certificates != nil),
		zap.Bool("root_cas", tlsConfig.RootCAs != nil),
	)
	return tlsConfig, nil
}

func (c *RedisClient) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
