package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/trynex-storefront/internal/analytics"
	"github.com/imrishuroy/trynex-storefront/internal/config"
	"github.com/imrishuroy/trynex-storefront/internal/notify"
	"github.com/imrishuroy/trynex-storefront/internal/rabbitmq"
	"github.com/imrishuroy/trynex-storefront/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	var sink EventSink
	if cfg.ClickHouse.Host != "" {
		ch, err := analytics.NewClient(cfg.ClickHouse)
		if err != nil {
			log.Fatalf("failed to init analytics: %v", err)
		}
		defer ch.Close()
		if err := ch.Migrate(context.Background()); err != nil {
			log.Fatalf("failed to migrate analytics: %v", err)
		}
		sink = ch
	}

	p := NewProcessor(st, sink, notify.New(cfg.Notify.WhatsAppNumber))

	if cfg.Events.Backend == "rabbitmq" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("failed to init consumer: %v", err)
		}
		defer consumer.Close()

		if err := consumer.Consume(ctx, p.Process); err != nil && ctx.Err() == nil {
			log.Fatalf("consumer stopped: %v", err)
		}
		return
	}

	// If RUN_LOCAL=true, process a single simulated SQS event for local testing.
	if cfg.HTTP.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			log.Fatalf("LOCAL_SQS_BODY is required when RUN_LOCAL=true")
		}
		event := lambdaevents.SQSEvent{
			Records: []lambdaevents.SQSMessage{{MessageId: "local", Body: testBody}},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
