//go:build integration

package rabbitmq

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRabbitMQ(ctx context.Context, t *testing.T) string {
	if url := os.Getenv("TEST_RABBITMQ_URL"); url != "" {
		return url
	}

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp"},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER": "guest",
			"RABBITMQ_DEFAULT_PASS": "guest",
		},
		WaitingFor: wait.ForListeningPort("5672/tcp").WithStartupTimeout(2 * time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate rabbitmq container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

func TestPublishAndConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := Connect(setupRabbitMQ(ctx, t), 10, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := SetupChannel(conn, MailExchange, MailQueues())
	require.NoError(t, err)
	defer ch.Close()

	type payload struct {
		To string `json:"to"`
	}
	require.NoError(t, PublishMessage(ch, MailExchange, ConfirmationQueue.RoutingKey, "id-1", payload{To: "vitor@email.com"}))

	got := make(chan string, 1)
	consumeCtx, stop := context.WithCancel(ctx)
	done, err := ConsumerMessage(consumeCtx, ch, ConfirmationQueue.QueueName, 1, newNoopLogger(),
		func(_ context.Context, body []byte) error {
			got <- string(body)
			return nil
		})
	require.NoError(t, err)

	select {
	case body := <-got:
		assert.JSONEq(t, `{"to":"vitor@email.com"}`, body)
	case <-ctx.Done():
		t.Fatal("message was not consumed")
	}
	stop()
	<-done
}
