package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/events"
	httpHandlers "github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/http"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/repository"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := repository.Open(ctx, config.StoreDriver(), config.DBDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer closeStore() //nolint:errcheck

	opts := []service.Option{}
	if broker := config.MQTTBroker(); broker != "" {
		pub, err := events.NewMQTTPublisher(broker, "carbon-api", config.MQTTTopic())
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt connect failed")
		}
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))
	}

	svcs := service.New(store, service.Simulation{
		MinDelay:         config.SimMinDelay(),
		Jitter:           config.SimJitter(),
		ReadFailureRate:  config.SimReadFailureRate(),
		WriteFailureRate: config.SimWriteFailureRate(),
	}, opts...)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	httpHandlers.Register(app, svcs)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
