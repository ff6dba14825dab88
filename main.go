package main

import (
	"context"
	"log"

	"github.com/autoheal/backend/internal/approval"
	"github.com/autoheal/backend/internal/client"
	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/db"
	"github.com/autoheal/backend/internal/handler"
	"github.com/autoheal/backend/internal/parser"
	"github.com/autoheal/backend/internal/policy"
	"github.com/autoheal/backend/internal/report"
	"github.com/autoheal/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 파일은 로컬 개발 편의용 (없어도 무방)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pool.Close()

	database := &db.Postgres{Pool: pool}
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	aiClient, err := client.NewAIClient(cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}

	slackClient := client.NewSlackClient(cfg.Slack)
	toolManager := client.NewToolClientManager(cfg.ToolExec)

	policies := policy.NewRegistry(cfg.Policy)
	alertParser := parser.NewEngine(policies, aiClient)

	tokens, err := report.NewTokenCodec(cfg.Token)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}
	formatter := report.NewFormatter(tokens)

	coordinator := approval.NewCoordinator(toolManager)
	retrieval := service.NewRetrievalService(database, aiClient, aiClient, cfg.AI)
	indexSvc := service.NewIndexService(database, aiClient, cfg.AI)
	orchestrator := service.NewOrchestrator(alertParser, formatter, retrieval)

	analyzeHandler := handler.NewAnalyzeHandler(orchestrator)
	indexHandler := handler.NewIndexHandler(indexSvc)
	slackHandler := handler.NewSlackHandler(orchestrator, coordinator, tokens, slackClient)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.Server.CORSOrigins))

	// 건강 체크 및 테스트용 기본 엔드포인트
	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)

	api := router.Group("/api")
	{
		api.POST("/analyze", analyzeHandler.Analyze)
		api.POST("/messages", indexHandler.IndexMessage)
	}

	// Slack 엔드포인트는 서명 검증을 통과한 요청만 처리
	slack := router.Group("/slack", handler.SlackSignatureMiddleware(slackClient))
	{
		slack.POST("/events", slackHandler.Events)
		slack.POST("/interactions", slackHandler.Interactions)
	}

	log.Printf("Server listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
