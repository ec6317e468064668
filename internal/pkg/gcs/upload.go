package gcs

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/service/interfaces"
)

type GCSClient struct {
	Client     *storage.Client
	BucketName string
	FolderName string
}

var _ interfaces.ResponseArchiverInterface = (*GCSClient)(nil)

func NewGCSClient(ctx context.Context, bucketName, folderName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf(log_messages.ErrorGCSClientCreation, err)
	}
	return &GCSClient{
		Client:     client,
		BucketName: bucketName,
		FolderName: folderName,
	}, nil
}

func (g *GCSClient) Close(ctx context.Context) {
	if g.Client == nil {
		return
	}
	if err := g.Client.Close(); err != nil {
		logger.CtxError(ctx, "Error closing GCS client", err)
	}
}

// Archive writes body as an XML object under the configured folder.
// Existing objects are never overwritten.
func (g *GCSClient) Archive(ctx context.Context, objectName string, body []byte) (string, error) {
	fullName := path.Join(g.FolderName, objectName)
	object := g.Client.Bucket(g.BucketName).Object(fullName)

	writer := object.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = "text/xml"
	if _, err := writer.Write(body); err != nil {
		_ = writer.Close()
		logger.CtxError(ctx, "Error uploading to GCS bucket", err, zap.String("objectName", fullName))
		return "", fmt.Errorf(log_messages.ErrorGCSUpload, err)
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, "Error closing GCS writer", err, zap.String("objectName", fullName))
		return "", fmt.Errorf(log_messages.ErrorGCSUpload, err)
	}
	logger.CtxInfo(ctx, log_messages.GCSObjectUploaded, zap.String("objectName", fullName))
	return fullName, nil
}
