package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/events"
)

// postfeed logs every post saved through the API, as published on MQTT.
func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()

	broker := config.MQTTBroker()
	if broker == "" {
		log.Fatal().Msg("MQTT_BROKER is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := events.Subscribe(ctx, broker, "carbon-postfeed", config.MQTTTopic(), func(ev events.PostEvent) {
		log.Info().
			Str("type", ev.Type).
			Str("post_id", ev.Post.ID).
			Str("company", ev.Post.ResourceUID).
			Str("month", ev.Post.DateTime).
			Str("title", ev.Post.Title).
			Time("at", ev.Timestamp).
			Msg("post saved")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("post feed stopped")
	}
}
