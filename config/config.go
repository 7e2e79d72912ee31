package config

import (
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                int    `env:"PORT" default:"8080"`
	Dsn                 string `env:"DSN" default:"localhost:5432"`
	SMTPHost            string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort            int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser            string `env:"SMTP_USER"`
	SMTPPassword        string `env:"SMTP_PASSWORD"`
	SMTPFrom            string `env:"SMTP_FROM"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel     string `env:"OPENROUTER_MODEL" envDefault:"google/gemma-3n-e2b-it:free"`
	GeminiAPIKey        string `env:"GEMINI_API_KEY"`
	GeminiModel         string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash-002"`
	GoogleMapsAPIKey    string `env:"GOOGLE_MAPS_API_KEY"`
	NominatimUserAgent  string `env:"NOMINATIM_USER_AGENT" envDefault:"CityDashboard/1.0 (contact: citydashboard@innodatatics.com)"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}
