package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"lastmile/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	config := getConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDB(config)

	root, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build composition root: %v", err)
	}
	defer func() {
		_ = root.Close()
	}()

	jobManager := root.CreateJobManager(config)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, config.HTTPPort)
}

func getConfig() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		RoutingOracleURL: os.Getenv("ROUTING_ORACLE_URL"),
		CardVaultURL:     os.Getenv("CARD_VAULT_URL"),

		KafkaBrokers:            strings.Split(os.Getenv("KAFKA_BROKERS"), ","),
		KafkaStatusChangedTopic: envOrDefault("KAFKA_STATUS_CHANGED_TOPIC", "order-status-changed"),
		KafkaOrderAssignedTopic: envOrDefault("KAFKA_ORDER_ASSIGNED_TOPIC", "order-assigned"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CallbackQueue: envOrDefault("CALLBACK_QUEUE", "partner-callbacks"),

		ArchivalSchedule:  envOrDefault("ARCHIVAL_SCHEDULE", "0 3 * * *"),
		ArchivalRetention: retentionFromEnv(),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func retentionFromEnv() time.Duration {
	raw := envOrDefault("ARCHIVAL_RETENTION_DAYS", "30")
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		log.Fatalf("invalid ARCHIVAL_RETENTION_DAYS %q", raw)
	}
	return time.Duration(days) * 24 * time.Hour
}

func mustOpenDB(config cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword,
		config.DBName, config.DBSslMode)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()
	root.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
