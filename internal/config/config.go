package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr  string
	MySQLDSN  string
	RedisAddr string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	NotifyWorkers   int
	NotifyQueueSize int
}

func Load() *Config {
	return &Config{
		HTTPAddr:  envStr("HTTP_ADDR", ":8080"),
		MySQLDSN:  envStr("MYSQL_DSN", "root:root@tcp(localhost:3306)/checkout?parseTime=true"),
		RedisAddr: envStr("REDIS_ADDR", "localhost:6379"),

		SMTPHost:  envStr("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:  envInt("SMTP_PORT", 2525),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		FromEmail: envStr("FROM_EMAIL", "noreply@ecommerce.com"),

		NotifyWorkers:   envInt("NOTIFY_WORKERS", 4),
		NotifyQueueSize: envInt("NOTIFY_QUEUE_SIZE", 1024),
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
