package interfaces

import "context"

// ReceivedMessage is one inbound convertLead request as delivered by Pub/Sub.
type ReceivedMessage interface {
	ID() string
	Data() []byte
	Ack()
	Nack()
}

// MessageReceiver pulls messages from one subscription.
type MessageReceiver interface {
	Receive(ctx context.Context, f func(context.Context, ReceivedMessage)) error
	SetConcurrency(maxOutstandingMessages, numGoroutines int)
}

type SubscriptionClient interface {
	Subscriber(subscription string) MessageReceiver
	Close() error
}
