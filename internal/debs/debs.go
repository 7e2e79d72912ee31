package deps

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innodatatics/city_dashboard/config"
	"github.com/innodatatics/city_dashboard/internal/db"
	"github.com/innodatatics/city_dashboard/internal/geocode"
	"github.com/innodatatics/city_dashboard/internal/http/googlemaps"
	"github.com/innodatatics/city_dashboard/internal/http/nominatim"
	"github.com/innodatatics/city_dashboard/internal/http/openrouter"
	"github.com/innodatatics/city_dashboard/internal/store"
	"github.com/innodatatics/city_dashboard/internal/summarize"
	"github.com/innodatatics/city_dashboard/util/storage"
	"github.com/innodatatics/city_dashboard/util/websockets"
)

type Dependencies struct {
	DB         *db.DB
	Store      *store.Store
	Cloudinary *storage.Cloudinary
	WebSocket  *websockets.WebSocketManager
	Geocoder   *geocode.Resolver
	Summarizer *summarize.Summarizer
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	websocket := websockets.NewWebSocketManager()

	geocoder := geocode.NewResolver(
		nominatim.NewClient(cfg.NominatimUserAgent),
		googlemaps.NewGoogleMapsClient(cfg.GoogleMapsAPIKey),
	)

	var fallback summarize.GenerativeAPI
	gemini, err := summarize.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Println("gemini client unavailable, summaries rely on primary only:", err)
	} else {
		fallback = gemini
	}
	summarizer := summarize.New(
		openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel),
		fallback,
	)

	deps := Dependencies{
		DB:         database,
		Store:      store.New(database),
		Cloudinary: cloudinary,
		WebSocket:  websocket,
		Geocoder:   geocoder,
		Summarizer: summarizer,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
