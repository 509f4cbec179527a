package main

import (
	"context"
	"log"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/trynex-storefront/internal/aws"
	"github.com/imrishuroy/trynex-storefront/internal/config"
	"github.com/imrishuroy/trynex-storefront/internal/events"
	"github.com/imrishuroy/trynex-storefront/internal/fallback"
	"github.com/imrishuroy/trynex-storefront/internal/handlers"
	"github.com/imrishuroy/trynex-storefront/internal/idempotency"
	"github.com/imrishuroy/trynex-storefront/internal/middleware"
	"github.com/imrishuroy/trynex-storefront/internal/notify"
	"github.com/imrishuroy/trynex-storefront/internal/orders"
	"github.com/imrishuroy/trynex-storefront/internal/rabbitmq"
	"github.com/imrishuroy/trynex-storefront/internal/realtime"
	"github.com/imrishuroy/trynex-storefront/internal/store"
	"github.com/imrishuroy/trynex-storefront/internal/storefront"
)

func setupRouter(cfg *config.Config, hcfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.CORS(cfg.HTTP.CORSOrigins))

	handlers.RegisterRoutes(r, hcfg)

	return r
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	// an unreachable database must not keep the catalog offline
	migrateCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	if err := st.Migrate(migrateCtx); err != nil {
		log.Printf("[api] migrate failed, catalog reads will use the fallback: %v", err)
	}
	cancel()

	var clients *aws.AWSClients
	if cfg.AWS.MetricsNamespace != "" || cfg.AWS.IdempotencyTable != "" || cfg.Events.Backend == "sqs" {
		clients, err = aws.NewAWSClients(ctx, cfg.AWS)
		if err != nil {
			log.Fatalf("failed to init aws clients: %v", err)
		}
	}

	var metrics storefront.FallbackRecorder
	if cfg.AWS.MetricsNamespace != "" {
		metrics = aws.NewMetricsRecorder(clients.CloudWatch, cfg.AWS.MetricsNamespace)
	}
	catalog := storefront.NewService(st, fallback.New(), metrics)

	publisher, closePublisher, err := newPublisher(cfg, clients)
	if err != nil {
		log.Fatalf("failed to init event publisher: %v", err)
	}
	defer closePublisher()

	hcfg := handlers.HandlerConfig{
		Catalog:     catalog,
		Store:       st,
		Orders:      orders.NewManager(st, catalog, publisher, orders.NewCodeGenerator(cfg.Orders.CodePrefix), cfg.Orders.CodeAttempts),
		Notifier:    notify.New(cfg.Notify.WhatsAppNumber),
		Hub:         realtime.NewHub(cfg.HTTP.CORSOrigins),
		AdminSecret: cfg.Auth.AdminJWTSecret,
		OpenAdmin:   cfg.HTTP.RunLocal,
	}
	if cfg.AWS.IdempotencyTable != "" {
		hcfg.Idempotency = idempotency.NewStore(clients.DynamoDB, cfg.AWS.IdempotencyTable, cfg.AWS.IdempotencyTTL)
	}

	r := setupRouter(cfg, hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.HTTP.RunLocal {
		addr := ":" + cfg.HTTP.Port
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

// newPublisher picks the order event transport from EVENTS_BACKEND.
func newPublisher(cfg *config.Config, clients *aws.AWSClients) (events.Publisher, func(), error) {
	switch cfg.Events.Backend {
	case "sqs":
		queue := aws.NewPublisher(clients.SQS, cfg.AWS.OrdersQueueURL)
		return events.NewSQSPublisher(queue), func() {}, nil
	case "rabbitmq":
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		log.Printf("[api] EVENTS_BACKEND=%s, order events are only logged", cfg.Events.Backend)
		return events.LogPublisher{}, func() {}, nil
	}
}
