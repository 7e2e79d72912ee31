package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/innodatatics/city_dashboard/config"
	deps "github.com/innodatatics/city_dashboard/internal/debs"
	api "github.com/innodatatics/city_dashboard/internal/http/rest"
	smtp "github.com/innodatatics/city_dashboard/util/email"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	deps := deps.New(cfg)

	mailer := smtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	a := &api.API{
		Config: cfg,
		Deps:   deps,
		Mailer: mailer,
		DB:     deps.Pool(),
	}
	a.Init()

	pollCtx, stopPoller := context.WithCancel(context.Background())
	go deps.WebSocket.Run()
	go a.Poller.Run(pollCtx)
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")

	stopPoller()
	if err := a.Shutdown(); err != nil {
		log.Println("server shutdown failed:", err)
	}

	deps.DB.Close()
	log.Println("Database connections closed.")
}
