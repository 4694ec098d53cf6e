package cmd

import "time"

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RoutingOracleURL string
	CardVaultURL     string

	KafkaBrokers            []string
	KafkaStatusChangedTopic string
	KafkaOrderAssignedTopic string

	RedisAddr     string
	RedisPassword string
	CallbackQueue string

	ArchivalSchedule  string
	ArchivalRetention time.Duration
}
