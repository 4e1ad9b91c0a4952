package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-chat/internal/app"
	"persona-chat/internal/config"
)

var adapter *ginadapter.GinLambda

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Se construye una vez por contenedor; el documento queda en memoria entre invocaciones.
	a, err := app.Build(context.Background(), cfg, logger, nil)
	if err != nil {
		logger.Fatal("build app", zap.Error(err))
	}
	defer a.Close()

	adapter = ginadapter.New(a.Router)
	lambda.Start(handler)
}
