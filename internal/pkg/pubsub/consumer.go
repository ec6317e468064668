package pubsub

import (
	"context"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"go.uber.org/zap"

	"leadconversion/internal/pkg/config"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/service/interfaces"
)

const restartDelay = 5 * time.Second

// PubSubClientFactory makes new clients (mockable in tests).
type PubSubClientFactory interface {
	NewClient(ctx context.Context, projectID string) (interfaces.SubscriptionClient, error)
}

type defaultPubSubClientFactory struct{}

func (f *defaultPubSubClientFactory) NewClient(ctx context.Context,
	projectID string) (interfaces.SubscriptionClient, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &defaultPubSubClient{client: client}, nil
}

// defaultPubSubClient wraps the real pubsub.Client
type defaultPubSubClient struct {
	client *pubsub.Client
}

func (c *defaultPubSubClient) Subscriber(subscription string) interfaces.MessageReceiver {
	return &defaultSubscriber{sub: c.client.Subscriber(subscription)}
}

func (c *defaultPubSubClient) Close() error {
	return c.client.Close()
}

type defaultSubscriber struct {
	sub *pubsub.Subscriber
}

func (s *defaultSubscriber) Receive(ctx context.Context, f func(context.Context, interfaces.ReceivedMessage)) error {
	return s.sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		f(ctx, &defaultMessage{msg: m})
	})
}

func (s *defaultSubscriber) SetConcurrency(maxOutstandingMessages, numGoroutines int) {
	s.sub.ReceiveSettings.MaxOutstandingMessages = maxOutstandingMessages
	s.sub.ReceiveSettings.NumGoroutines = numGoroutines
}

// defaultMessage wraps the real pubsub.Message
type defaultMessage struct {
	msg *pubsub.Message
}

func (m *defaultMessage) ID() string {
	return m.msg.ID
}

func (m *defaultMessage) Data() []byte {
	return m.msg.Data
}

func (m *defaultMessage) Ack() {
	m.msg.Ack()
}

func (m *defaultMessage) Nack() {
	m.msg.Nack()
}

// PubSubConsumer receives conversion requests from one subscription.
type PubSubConsumer struct {
	client interfaces.SubscriptionClient
	cfg    config.PubSubConfig
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPubSubConsumer uses the default factory
func NewPubSubConsumer(ctx context.Context, cfg config.PubSubConfig) (*PubSubConsumer, error) {
	return NewPubSubConsumerWithFactory(ctx, cfg, &defaultPubSubClientFactory{})
}

func NewPubSubConsumerWithFactory(
	ctx context.Context,
	cfg config.PubSubConfig,
	factory PubSubClientFactory,
) (*PubSubConsumer, error) {
	client, err := factory.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		logger.CtxError(ctx, "Failed creating PubSub client", err)
		return nil, err
	}

	consumerCtx, cancel := context.WithCancel(ctx)
	return &PubSubConsumer{
		client: client,
		cfg:    cfg,
		ctx:    consumerCtx,
		cancel: cancel,
		done:   make(chan struct{}),
	}, nil
}

// Consume runs one Receive loop. A nil handler error acks the message,
// anything else nacks it for redelivery.
func (c *PubSubConsumer) Consume(ctx context.Context,
	handler func(ctx context.Context, msg []byte) error) error {
	sub := c.client.Subscriber(c.cfg.Subscription)
	sub.SetConcurrency(c.cfg.MaxOutstandingMessages, c.cfg.NumGoroutines)
	return sub.Receive(ctx, func(ctx context.Context, m interfaces.ReceivedMessage) {
		logger.CtxDebug(ctx, log_messages.PubsubMessageReceived, zap.String("messageId", m.ID()))
		if err := handler(ctx, m.Data()); err != nil {
			logger.CtxWarn(ctx, "Nacked the message for redelivery",
				zap.String("messageId", m.ID()), zap.Error(err))
			m.Nack()
			return
		}
		m.Ack()
	})
}

// StartConsumer keeps Consume running in the background until the consumer is closed.
func (c *PubSubConsumer) StartConsumer(handler func(ctx context.Context, msg []byte) error) {
	go func() {
		defer close(c.done)
		logger.CtxInfo(c.ctx, "PubSub consumer starting", zap.String("subscription", c.cfg.Subscription))

		for {
			err := c.Consume(c.ctx, handler)
			if c.ctx.Err() != nil {
				logger.CtxInfo(c.ctx, log_messages.PubsubConsumerStopped)
				return
			}
			if err != nil {
				logger.CtxError(c.ctx, "Error consuming messages, restarting", err)
			} else {
				logger.CtxInfo(c.ctx, "PubSub consumer stopped without error, restarting")
			}

			select {
			case <-c.ctx.Done():
				logger.CtxInfo(c.ctx, log_messages.PubsubConsumerStopped)
				return
			case <-time.After(restartDelay):
			}
		}
	}()
}

// Unsubscribe gracefully stops receiving messages
func (c *PubSubConsumer) Unsubscribe(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
		logger.CtxInfo(ctx, "PubSub consumer unsubscribed gracefully")
	}
	return nil
}

// Done is closed once the loop started by StartConsumer has returned.
func (c *PubSubConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *PubSubConsumer) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.client.Close()
}
