package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, error, ...map[string]interface{})  {}
func (noopLogger) Debug(string, error, ...map[string]interface{}) {}
func (noopLogger) Warn(string, error, ...map[string]interface{})  {}
func (noopLogger) Error(string, error, ...map[string]interface{}) {}
func (noopLogger) Fatal(string, error, ...map[string]interface{}) {}

func TestDisabledPublisherIsNoop(t *testing.T) {
	publisher, err := NewPublisher(Config{Exchange: "usage-events", RoutingKeyPrefix: "usage"}, noopLogger{})
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), Event{Type: TypeQuery, UserID: 1})
	assert.NoError(t, err)
	assert.NoError(t, publisher.GracefulShutdown())
}

func TestNilPublisherIsSafe(t *testing.T) {
	var publisher *Publisher
	assert.NoError(t, publisher.Publish(context.Background(), Event{Type: TypeIngest}))
	assert.NoError(t, publisher.GracefulShutdown())
}

func TestRoutingKey(t *testing.T) {
	publisher := &Publisher{cfg: Config{RoutingKeyPrefix: "usage"}}
	assert.Equal(t, "usage.query", publisher.routingKey(TypeQuery))
	assert.Equal(t, "usage.delete", publisher.routingKey(TypeDelete))
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{URL: "amqp://localhost:5672/"}.Enabled())
}
