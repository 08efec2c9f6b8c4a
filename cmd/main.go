package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/redis/go-redis/v9"

	"greeting-sender/handler"
	"greeting-sender/internal/config"
	"greeting-sender/internal/integrations/monetization"
	"greeting-sender/internal/integrations/paramstore"
	"greeting-sender/internal/pending"
	"greeting-sender/internal/platform/telemetry"
	"greeting-sender/internal/repository"
	"greeting-sender/internal/usecase"
)

const serviceName = "greeting-sender"

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	attributes, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.AttributesTable)
	if err != nil {
		slog.Error("failed to create attribute store", "err", err)
		os.Exit(1)
	}

	pendingStore, err := newPendingStore(ctx, cfg, awsssm.NewFromConfig(awsCfg))
	if err != nil {
		slog.Error("failed to create pending store", "err", err)
		os.Exit(1)
	}

	traces, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	turns, err := usecase.NewTurnService(attributes, monetization.NewClient(), pendingStore,
		usecase.WithLogger(logger),
		usecase.WithWriteTimeout(cfg.WriteTimeout),
	)
	if err != nil {
		slog.Error("failed to create turn service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(turns, handler.WithTraceFlusher(traces), handler.WithLogger(logger))
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

// newPendingStore uses Redis when REDIS_ADDR is set, with the password held
// in SSM. Without it offers are tracked per container only.
func newPendingStore(ctx context.Context, cfg config.Config, ssmAPI *awsssm.Client) (pending.Store, error) {
	opts := []pending.StoreOption{pending.WithTTL(cfg.PendingTTL)}
	if cfg.RedisAddr == "" {
		slog.Warn("REDIS_ADDR not set; pending purchases tracked in memory")
		return pending.NewStore(pending.StoreTypeMemory, opts...)
	}

	params, err := paramstore.New(ssmAPI)
	if err != nil {
		return nil, err
	}
	password, err := paramstore.SecretToken(ctx, params, cfg.RedisAuthParam())
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: password,
	})
	return pending.NewStore(pending.StoreTypeRedis, append(opts, pending.WithRedisClient(client))...)
}
