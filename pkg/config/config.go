package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		HTTP      HTTP      `envPrefix:"HTTP_"`
		Logger    Logger    `envPrefix:"LOGGER_"`
		Telemetry Telemetry `envPrefix:"TELEMETRY_"`
		Cache     Cache     `envPrefix:"CACHE_"`
		Upstream  Upstream  `envPrefix:"UPSTREAM_"`
	}

	HTTP struct {
		Server  Server        `envPrefix:"SERVER_"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	}

	Server struct {
		Port         string        `env:"PORT,required"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
		IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	}

	Logger struct {
		Level string `env:"LEVEL" envDefault:"info"`
	}

	Telemetry struct {
		Enabled        bool   `env:"ENABLED" envDefault:"false"`
		ServiceName    string `env:"SERVICE_NAME" envDefault:"digital-earth-tilecache"`
		ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
		Environment    string `env:"ENVIRONMENT" envDefault:"production"`
		OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"otel-collector.observability.svc.cluster.local:4317"`
	}

	Cache struct {
		MaxFrames             int           `env:"MAX_FRAMES" envDefault:"6"`
		MaxURLsPerFrame       int           `env:"MAX_URLS_PER_FRAME" envDefault:"512"`
		MaxPrefetchPerFrame   int           `env:"MAX_PREFETCH_PER_FRAME" envDefault:"64"`
		MaxQueueSize          int           `env:"MAX_QUEUE_SIZE" envDefault:"256"`
		MaxConcurrentPrefetch int           `env:"MAX_CONCURRENT_PREFETCH" envDefault:"6"`
		CooldownThreshold     int           `env:"COOLDOWN_THRESHOLD" envDefault:"3"`
		CooldownWindow        time.Duration `env:"COOLDOWN_WINDOW" envDefault:"30s"`
	}

	Upstream struct {
		TileURLTemplate string        `env:"TILE_URL_TEMPLATE" envDefault:"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`
		Timeout         time.Duration `env:"TIMEOUT" envDefault:"30s"`
		MaximumLevel    int           `env:"MAXIMUM_LEVEL" envDefault:"19"`
		TileWidth       int           `env:"TILE_WIDTH" envDefault:"256"`
		TileHeight      int           `env:"TILE_HEIGHT" envDefault:"256"`
		UserAgent       string        `env:"USER_AGENT" envDefault:"DigitalEarth/1.0 (https://github.com/DankerMu/Digital-earth-sub001)"`
		Referer         string        `env:"REFERER" envDefault:""`
	}
)

func New() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("NOTICE: .env file not found or cannot be loaded: %v\n", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
