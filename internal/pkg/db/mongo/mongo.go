package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/config"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// MongoConnector opens and checks a client. Tests replace it.
type MongoConnector interface {
	Connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)
	Ping(ctx context.Context, client *mongo.Client) error
}

type DefaultMongoConnector struct{}

func (DefaultMongoConnector) Connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(ctx, opts)
}

func (DefaultMongoConnector) Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

func ConnectToMongoDB(ctx context.Context, cfg config.MongoConfig) (*MongoClient, error) {
	return connectWithConnector(ctx, cfg, DefaultMongoConnector{})
}

func clientOptions(cfg config.MongoConfig) *options.ClientOptions {
	connectTimeout := cfg.ConnectTimeout
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout * 2).
		SetHeartbeatInterval(10 * time.Second).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	if cfg.Username != "" {
		clientOpts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	return clientOpts
}

func connectWithConnector(ctx context.Context, cfg config.MongoConfig, connector MongoConnector) (*MongoClient, error) {
	logger.CtxInfo(ctx, "Connecting to MongoDB", zap.String("database", cfg.DBName))

	client, err := connector.Connect(ctx, clientOptions(cfg))
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err, zap.String("database", cfg.DBName))
		return nil, fmt.Errorf(log_messages.ErrorMongoConnection, err)
	}

	if err := connector.Ping(ctx, client); err != nil {
		logger.CtxError(ctx, "MongoDB ping failed", err, zap.String("database", cfg.DBName))
		return nil, fmt.Errorf(log_messages.ErrorMongoConnection, err)
	}

	logger.CtxInfo(ctx, "Successfully connected to MongoDB", zap.String("database", cfg.DBName))

	return &MongoClient{
		Client:   client,
		Database: client.Database(cfg.DBName),
	}, nil
}

func (c *MongoClient) Disconnect(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Disconnect(ctx)
}
