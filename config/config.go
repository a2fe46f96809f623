package config

import (
	"log"

	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Scheme          string `mapstructure:"scheme"`
	BaseURL         string `mapstructure:"base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"pool_size"`
	MinIdleConns     int    `mapstructure:"min_idle_conns"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CacheConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MaxSizeMB   int  `mapstructure:"max_size_mb"`
	TTLSeconds  int  `mapstructure:"ttl_seconds"`
	CounterSize int  `mapstructure:"counter_size"`
}

// ProbesConfig configures the external availability signal sources.
type ProbesConfig struct {
	WhoisAPIKey      string   `mapstructure:"whois_api_key"`
	WhoisEndpoint    string   `mapstructure:"whois_endpoint"`
	TLDs             []string `mapstructure:"tlds"`
	ApifyToken       string   `mapstructure:"apify_token"`
	ApifyEndpoint    string   `mapstructure:"apify_endpoint"`
	InstagramActorID string   `mapstructure:"instagram_actor_id"`
	TikTokActorID    string   `mapstructure:"tiktok_actor_id"`
	XActorID         string   `mapstructure:"x_actor_id"`
	TimeoutSeconds   int      `mapstructure:"timeout_seconds"`
}

// BillingConfig configures Stripe checkout and webhook verification.
type BillingConfig struct {
	StripeSecretKey    string `mapstructure:"stripe_secret_key"`
	StripeEndpoint     string `mapstructure:"stripe_endpoint"`
	WebhookSecret      string `mapstructure:"webhook_secret"`
	PriceAmount        int64  `mapstructure:"price_amount"`
	Currency           string `mapstructure:"currency"`
	ProductName        string `mapstructure:"product_name"`
	FrontendURL        string `mapstructure:"frontend_url"`
	SignatureTolerance int    `mapstructure:"signature_tolerance"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"`
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Probes    ProbesConfig    `mapstructure:"probes"`
	Billing   BillingConfig   `mapstructure:"billing"`
}

func LoadConfig() (Config, error) {
	var config Config

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Enable environment variable overrides
	viper.SetEnvPrefix("BRANDFUSE")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Error reading config file: %v", err)
		return config, err
	}

	if err := viper.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	log.Println("Configuration loaded successfully")
	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

func setDefaults() {
	// WebServer defaults
	viper.SetDefault("webserver.port", "3333")
	viper.SetDefault("webserver.ip", "127.0.0.1")
	viper.SetDefault("webserver.scheme", "http")
	viper.SetDefault("webserver.base_url", "")
	viper.SetDefault("webserver.read_timeout", 15)
	viper.SetDefault("webserver.write_timeout", 15)
	viper.SetDefault("webserver.shutdown_timeout", 30)

	// Redis defaults
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.operation_timeout", 5)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size_mb", 100)
	viper.SetDefault("cache.ttl_seconds", 300)      // 5 minutes
	viper.SetDefault("cache.counter_size", 1000000) // 1M keys

	// RateLimit defaults
	viper.SetDefault("ratelimit.requests_per_second", 10.0)
	viper.SetDefault("ratelimit.burst", 20)

	// Probe defaults
	viper.SetDefault("probes.whois_api_key", "")
	viper.SetDefault("probes.whois_endpoint", "https://www.whoisxmlapi.com/whoisserver/WhoisService")
	viper.SetDefault("probes.tlds", []string{".com", ".com.br", ".net", ".org"})
	viper.SetDefault("probes.apify_token", "")
	viper.SetDefault("probes.apify_endpoint", "https://api.apify.com")
	viper.SetDefault("probes.instagram_actor_id", "shu8hvrXbJbY3Eb9W")
	viper.SetDefault("probes.tiktok_actor_id", "GdWCkxBtKWOsKjdch")
	viper.SetDefault("probes.x_actor_id", "nfp1fpt5gUlBwPcor")
	viper.SetDefault("probes.timeout_seconds", 10)

	// Billing defaults
	viper.SetDefault("billing.stripe_secret_key", "")
	viper.SetDefault("billing.stripe_endpoint", "https://api.stripe.com")
	viper.SetDefault("billing.webhook_secret", "")
	viper.SetDefault("billing.price_amount", 499) // R$4,99
	viper.SetDefault("billing.currency", "brl")
	viper.SetDefault("billing.product_name", "BrandFuse Strategic Report")
	viper.SetDefault("billing.frontend_url", "http://localhost:5173")
	viper.SetDefault("billing.signature_tolerance", 300)
	viper.SetDefault("billing.timeout_seconds", 15)
}
