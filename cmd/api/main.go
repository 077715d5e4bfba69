package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	internalaws "github.com/smileworks/go-whitening-store/internal/aws"
	"github.com/smileworks/go-whitening-store/internal/handlers"
	"github.com/smileworks/go-whitening-store/internal/store"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// permissive policy for a public demo storefront, not a hardened deployment
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// Store features degrade instead of crashing startup when the client
	// cannot be built; /test reports the disconnected state.
	cfg := handlers.HandlerConfig{}
	clients, err := internalaws.NewAWSClients(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("store client init failed; running with store unavailable")
		cfg.Store = store.New(nil, "")
	} else {
		cfg.Store = store.New(clients.DynamoDB, "dynamodb/"+clients.Region)
		cfg.Metrics = internalaws.NewMetrics(clients.CloudWatch, "WhiteningStore")
	}

	r := setupRouter(cfg)

	// inside Lambda, serve through the API Gateway proxy adapter
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter := ginadapter.New(r)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
			return adapter.ProxyWithContext(ctx, req)
		})
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Info().Str("port", port).Msg("whitening store backend listening")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
