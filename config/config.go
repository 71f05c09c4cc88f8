package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"gestaorh-checkout-api/services/email"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Pagarme PagarmeConfig
	Billing BillingConfig
	ViaCEP  ViaCEPConfig
	JWT     JWTConfig
	SMTP    email.SMTPConfig
	Session SessionConfig
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	URL               string
	WorkerConcurrency int
}

type PagarmeConfig struct {
	BaseURL   string
	PublicKey string
}

// BillingConfig aponta para o backend GestãoRH que cria a assinatura
// recorrente a partir do token de cartão.
type BillingConfig struct {
	BaseURL string
	APIKey  string
}

type ViaCEPConfig struct {
	BaseURL string
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type SessionConfig struct {
	CookieKey string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	workerConcurrency := 2

	cfg := &Config{
		Server: ServerConfig{
			Port: os.Getenv("SERVER_PORT"),
		},
		Redis: RedisConfig{
			URL:               os.Getenv("REDIS_URL"),
			WorkerConcurrency: workerConcurrency,
		},
		Pagarme: PagarmeConfig{
			BaseURL:   os.Getenv("PAGARME_BASE_URL"),
			PublicKey: os.Getenv("PAGARME_PUBLIC_KEY"),
		},
		Billing: BillingConfig{
			BaseURL: os.Getenv("BILLING_API_URL"),
			APIKey:  os.Getenv("BILLING_API_KEY"),
		},
		ViaCEP: ViaCEPConfig{
			BaseURL: os.Getenv("VIACEP_BASE_URL"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: os.Getenv("JWT_ISSUER"),
		},
		SMTP: email.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		Session: SessionConfig{
			CookieKey: os.Getenv("SESSION_COOKIE_KEY"),
		},
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
		log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
	}

	if cfg.JWT.Secret == "" {
		log.Printf("Warning: JWT_SECRET not set, authenticated endpoints will reject all tokens")
	}

	// O struct inteiro não vai para o log: carrega chaves de API e segredos.
	log.Printf("Config loaded (port: %s, pagarme: %s, billing: %s)",
		cfg.Server.Port, cfg.Pagarme.BaseURL, cfg.Billing.BaseURL)

	return cfg
}
