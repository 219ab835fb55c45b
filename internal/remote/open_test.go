package remote

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	ep, closeFn, err := Open(ctx, Options{Target: TargetLog})
	require.NoError(t, err)
	assert.IsType(t, &LogAcceptor{}, ep)
	assert.NoError(t, closeFn())

	ep, _, err = Open(ctx, Options{Target: TargetHTTP, URL: "http://example.test"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPAcceptor{}, ep)

	ep, closeFn, err = Open(ctx, Options{Target: TargetKafka, Brokers: []string{"localhost:9092"}, Topic: "t"})
	require.NoError(t, err)
	assert.IsType(t, &KafkaAcceptor{}, ep)
	assert.NoError(t, closeFn())
}

func TestOpen_MissingSettings(t *testing.T) {
	ctx := context.Background()
	for _, opts := range []Options{
		{Target: TargetHTTP},
		{Target: TargetKafka},
		{Target: TargetPostgres},
		{Target: "carrier-pigeon"},
	} {
		_, _, err := Open(ctx, opts)
		assert.Error(t, err, "target %q", opts.Target)
	}
}

func TestLogAcceptor(t *testing.T) {
	var buf bytes.Buffer
	acc := NewLogAcceptor(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, acc.Accept(context.Background(), testMutation()))
	require.NoError(t, acc.Probe(context.Background()))
	assert.Contains(t, buf.String(), "id=m-1")
	assert.Contains(t, buf.String(), "entity_type=schedule")
}
