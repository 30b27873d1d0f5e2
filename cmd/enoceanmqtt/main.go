// enoceanmqtt bridges an EnOcean radio network to MQTT, publishing decoded
// telegrams as retained device state and Home Assistant discovery configs,
// and translating MQTT commands back into outbound radio telegrams.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/enoceanmqtt/core/internal/bridge"
	"github.com/enoceanmqtt/core/internal/command"
	"github.com/enoceanmqtt/core/internal/device"
	"github.com/enoceanmqtt/core/internal/dispatcher"
	"github.com/enoceanmqtt/core/internal/eep"
	"github.com/enoceanmqtt/core/internal/infrastructure/config"
	"github.com/enoceanmqtt/core/internal/infrastructure/database"
	"github.com/enoceanmqtt/core/internal/infrastructure/influxdb"
	"github.com/enoceanmqtt/core/internal/infrastructure/logging"
	"github.com/enoceanmqtt/core/internal/infrastructure/mqtt"
	"github.com/enoceanmqtt/core/internal/mapping"
	"github.com/enoceanmqtt/core/internal/ringbuffer"
	"github.com/enoceanmqtt/core/internal/statecache"
	"github.com/enoceanmqtt/core/internal/teachin"
	"github.com/enoceanmqtt/core/internal/telegramlog"
	"github.com/enoceanmqtt/core/internal/transport"

	_ "github.com/enoceanmqtt/core/migrations" // registers embedded SQL migrations
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	fmt.Printf("enoceanmqtt %s (%s) built %s\n", version, commit, date)

	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component in order and supervises the gateway until ctx
// is cancelled, then tears them down in reverse order. Returning an error
// separates exit-code handling from the gateway's own logic.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, version)
	logger.Info("starting enoceanmqtt", "config", configPath)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	registry := device.NewRegistry(cfg.Device.StoreDir)
	if err := registry.Load(); err != nil {
		return fmt.Errorf("loading device registry: %w", err)
	}

	profiles := eep.NewStore(cfg.EEP.CustomDir, cfg.EEP.LibraryPath)
	if err := profiles.Load(); err != nil {
		return fmt.Errorf("loading eep profiles: %w", err)
	}

	mappings := mapping.NewStore(cfg.Mapping.StoreDir)
	if err := mappings.Load(); err != nil {
		return fmt.Errorf("loading entity mappings: %w", err)
	}

	cache := statecache.New(cfg.StateCache.Dir, cfg.StateCache.Enabled)
	ring := ringbuffer.New(ringbuffer.DefaultCapacity)

	writer := telegramlog.NewWriter(db.DB)
	writer.SetLogger(logger)
	if err := writer.Start(); err != nil {
		return fmt.Errorf("starting telegram log writer: %w", err)
	}
	defer writer.Stop()

	port, err := transport.Connect(cfg.Transport.Port, cfg.Transport.BaudRate, logger)
	if err != nil {
		return fmt.Errorf("connecting to transceiver: %w", err)
	}
	defer port.Close()

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to mqtt broker: %w", err)
	}
	mqttClient.SetLogger(logger)
	defer mqttClient.Close()

	metrics, influxClient, err := connectInfluxDB(ctx, cfg.InfluxDB, logger)
	if err != nil {
		return fmt.Errorf("connecting to influxdb: %w", err)
	}
	if influxClient != nil {
		defer influxClient.Close()
	}

	hub := teachin.NewHub(logger)
	commands := command.NewRegistry()

	br, err := bridge.New(bridge.Options{
		Registry:  registry,
		Mappings:  mappings,
		Cache:     cache,
		MQTT:      mqttClient,
		Commands:  commands,
		Transport: port,
		TeachIn:   hub,
		Logger:    logger,
		QoS:       byte(cfg.MQTT.QoS),
	})
	if err != nil {
		return fmt.Errorf("building bridge: %w", err)
	}

	d := dispatcher.New(dispatcher.Options{
		Registry:  registry,
		Profiles:  profiles,
		Ring:      ring,
		Publisher: br,
		TeachIn:   br,
		Recorder:  writer,
		Metrics:   metrics,
		Logger:    logger,
	})

	if err := br.Start(ctx); err != nil {
		return fmt.Errorf("starting bridge: %w", err)
	}
	defer br.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return br.Run(gctx, d) })
	g.Go(func() error { hub.Run(gctx); return nil })
	if influxClient != nil {
		flushInterval := time.Duration(cfg.InfluxDB.FlushInterval) * time.Second
		g.Go(func() error { return flushInfluxDB(gctx, influxClient, flushInterval) })
	}

	logger.Info("enoceanmqtt started", "devices", registry.Len())

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("component stopped with error", "error", err)
	}

	logger.Info("enoceanmqtt stopped")
	return nil
}

// connectInfluxDB connects to InfluxDB when enabled, returning nil for
// both values when it is not — metrics is then simply omitted from the
// dispatcher's collaborators.
func connectInfluxDB(ctx context.Context, cfg config.InfluxDBConfig, logger *logging.Logger) (dispatcher.MetricsSink, *influxdb.Client, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	client, err := influxdb.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to influxdb", "bucket", cfg.Bucket)
	return client, client, nil
}

// flushInfluxDB periodically flushes the InfluxDB write buffer until ctx is
// cancelled, so batched points aren't held in memory for arbitrarily long
// during quiet periods.
func flushInfluxDB(ctx context.Context, client *influxdb.Client, interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			client.Flush()
			return ctx.Err()
		case <-ticker.C:
			client.Flush()
		}
	}
}
