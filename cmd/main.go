package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"onairlink/internal/bridge"
	"onairlink/internal/broadcast"
	"onairlink/internal/config"
	"onairlink/internal/logger"
	"onairlink/internal/midiin"
	"onairlink/internal/session"
	"onairlink/internal/statusmqtt"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "configs/conf.toml", "Path to configuration file")
}

func main() {
	flag.Parse()
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("failed to create a logger: %v", err)
		os.Exit(1)
	}

	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	sender, err := broadcast.NewSender(log, cfg.Network)
	if err != nil {
		log.With(logger.Fields{"module": "broadcast"}).Errorf("error while creating the broadcast sender. %v", err)
		os.Exit(1)
	}
	defer sender.Close()

	watcher, err := midiin.NewWatcher(log, cfg.Device.Match)
	if err != nil {
		log.With(logger.Fields{"module": "midi"}).Errorf("error while creating the MIDI watcher. %v", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	// MQTT mirror is optional, packets go out either way.
	var pub bridge.Publisher
	var mqttPub *statusmqtt.Publisher
	if cfg.MQTT.Host != "" {
		mqttPub = statusmqtt.NewPublisher(log, cfg.MQTT)
		if err = mqttPub.Start(ctx); err != nil {
			log.Error("failed to start MQTT publisher:", err.Error())
			cancel()
		}
		pub = mqttPub
	}

	sess := session.New(log, cfg.Device.Name)
	b := bridge.New(log, sess, sender, pub)

	b.Start(ctx, watcher.Messages())
	watcher.Start(ctx)
	log.With(logger.Fields{"module": "midi"}).Info("waiting for USB MIDI port...")

	<-ctx.Done()

	watcher.Close()

	if mqttPub != nil {
		if err := mqttPub.Stop(); err != nil {
			log.Error("failed to stop MQTT publisher:", err.Error())
		}
	}

	log.Info("shutdown complete")
}
