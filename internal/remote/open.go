package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Target names a remote implementation.
type Target string

const (
	TargetLog      Target = "log"
	TargetHTTP     Target = "http"
	TargetKafka    Target = "kafka"
	TargetPostgres Target = "postgres"
)

func (t Target) Valid() bool {
	switch t {
	case TargetLog, TargetHTTP, TargetKafka, TargetPostgres:
		return true
	}
	return false
}

// Endpoint is a remote that can both accept mutations and be probed.
type Endpoint interface {
	Acceptor
	Prober
}

type Options struct {
	Target      Target
	URL         string
	Token       string
	Timeout     time.Duration
	Brokers     []string
	Topic       string
	PostgresURL string
	Logger      *slog.Logger
}

// Open builds the endpoint selected by opts.Target. The returned close
// function releases any connections it holds.
func Open(ctx context.Context, opts Options) (Endpoint, func() error, error) {
	noop := func() error { return nil }

	switch opts.Target {
	case TargetLog, "":
		return NewLogAcceptor(opts.Logger), noop, nil
	case TargetHTTP:
		if opts.URL == "" {
			return nil, nil, errors.New("http sync target requires a URL")
		}
		return NewHTTPAcceptor(opts.URL, opts.Token, opts.Timeout), noop, nil
	case TargetKafka:
		if len(opts.Brokers) == 0 {
			return nil, nil, errors.New("kafka sync target requires brokers")
		}
		k := NewKafkaAcceptor(opts.Brokers, opts.Topic)
		return k, k.Close, nil
	case TargetPostgres:
		if opts.PostgresURL == "" {
			return nil, nil, errors.New("postgres sync target requires a connection URL")
		}
		p, err := NewPostgresAcceptor(ctx, opts.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := p.EnsureSchema(ctx); err != nil {
			p.Close()
			return nil, nil, err
		}
		return p, func() error { p.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown sync target %q", opts.Target)
	}
}
