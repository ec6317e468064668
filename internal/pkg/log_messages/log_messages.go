package log_messages

const (
	// Process lifecycle
	FailedLoadingConfiguration = "Failed to load configuration"
	ServerStarting             = "Starting HTTP server"
	ServerStartFailure         = "Failed to start server"
	ServerShutdown             = "Shutting down server..."
	ServerExiting              = "Server exiting"
	CleanupStarted             = "Starting cleanup of resources..."
	CleanupCompleted           = "All resources cleaned up successfully"
	ConfigLoaded               = "Configuration loaded successfully"
	ConfigReadFailure          = "Failed to read config file"
	ConfigUnmarshalFailure     = "Failed to unmarshal config"
	EnvFileNotLoaded           = "No .env file loaded"

	// Tracing
	TracingDisabled        = "OTLP collector not configured, tracing disabled"
	TracingEnabled         = "OTLP tracing enabled"
	TracingExporterFailure = "OTLP exporter creation failed"
	MetricsExporterFailure = "OTLP metric exporter creation failed, metrics disabled"

	// convertLead downstream
	PreparingConvertLeadRequest       = "Preparing to send convertLead request"
	ReceivedConvertLeadResponse       = "Received convertLead response"
	ConvertLeadSucceeded              = "convertLead succeeded"
	ConvertLeadRejected               = "convertLead rejected by Salesforce"
	ConvertLeadBuildFailed            = "Failed to build convertLead request"
	ConvertLeadSendFailed             = "Failed to send convertLead request"
	ErrorNilConvertLeadRequest        = "convertLead request is nil"
	ErrorFailedToBuildConvertLead     = "failed to build convertLead request: %w"
	ErrorFailedToSendConvertLead      = "failed to send convertLead request: %w"
	ErrorFailedToReadConvertLeadBody  = "failed to read convertLead response body: %w"
	ErrorFailedToParseConvertLeadBody = "failed to parse convertLead response: %w"
	ErrorFailedToParseFaultBody       = "failed to parse convertLead fault body: %w"
	ErrorConvertLeadAuthFailure       = "convertLead authentication failure"
	ErrorConvertLeadMalformedResponse = "convertLead response is not well-formed XML"
	ErrorInvalidProxyURL              = "invalid proxy URL for scheme %s: %w"

	// Service
	ErrorInvalidConvertLeadRequest     = "invalid convertLead request: %v"
	ErrorConversionInProgress          = "conversion already in progress for lead"
	ErrorFailedToAcquireConversionLock = "failed to acquire conversion lock"
	ErrorFailedToReleaseConversionLock = "failed to release conversion lock"
	ErrorFailedToWriteConversionAudit  = "failed to write conversion audit record"
	ErrorFailedToArchiveResponseBody   = "failed to archive convertLead response body"
	ErrorFailedToPublishStatusEvent    = "failed to publish conversion status event"
	ConversionStatusEventPublished    = "Conversion status event published"

	// Pub/Sub
	FailureInPubsubConsumerCreation = "Failed to create Pubsub consumer"
	ErrorUnmarshalingPubsubMessage  = "error unmarshaling Pubsub message"
	PubsubMessageReceived           = "Pubsub message received"
	PubsubConsumerStopped           = "Pubsub consumer stopped"

	// Kafka
	ErrorKafkaProducerCreation = "failed to create Kafka producer: %w"
	ErrorKafkaSerialize        = "failed to serialize Kafka message: %w"
	ErrorKafkaProduce          = "failed to produce Kafka message: %w"
	ErrorKafkaDelivery         = "Kafka delivery failed: %w"
	KafkaFlushIncomplete       = "Kafka flush left undelivered messages"

	// Storage
	ErrorRedisConnection   = "failed to connect to Redis: %w"
	ErrorMongoConnection   = "failed to connect to MongoDB: %w"
	ErrorGCSClientCreation = "failed to create GCS client: %w"
	ErrorGCSUpload         = "failed to upload object to GCS: %w"
	GCSObjectUploaded      = "Object uploaded to GCS"

	// HTTP handlers
	ErrorInvalidRequestBody = "Invalid request body"
)
