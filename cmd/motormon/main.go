package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/motor.report/internal/api"
	"github.com/banshee-data/motor.report/internal/db"
	"github.com/banshee-data/motor.report/internal/motor"
	"github.com/banshee-data/motor.report/internal/publish"
	"github.com/banshee-data/motor.report/internal/transport"
	"github.com/banshee-data/motor.report/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "HTTP listen address")
	udpAddr    = flag.String("udp", ":9876", "UDP listen address for sensor samples (empty to disable)")
	serialPort = flag.String("serial-port", "", "Serial port for wired sensor input (empty to disable)")
	dbFile     = flag.String("db", "motor_data.db", "SQLite database file (empty to disable persistence)")
	redisAddr  = flag.String("redis", "", "Redis address for record publishing (empty to disable)")

	windowSize = flag.Int("window", 0, "Current window size in samples (0 for default)")
	f0Detected = flag.Float64("f0", 0, "Fixed supply frequency in Hz (0 to estimate per window)")
	sampleRate = flag.Float64("sample-rate", 0, "Acquisition sample rate in Hz (0 for default)")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if *udpAddr == "" && *serialPort == "" {
		log.Fatal("At least one of -udp or -serial-port is required")
	}

	cfg := motor.DefaultConfig()
	if *windowSize > 0 {
		cfg.WindowSize = *windowSize
	}
	if *f0Detected > 0 {
		cfg.F0Detected = *f0Detected
	}
	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}

	var database *db.DB
	if *dbFile != "" {
		var err error
		database, err = db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer database.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(database)

	var publisher *publish.RedisPublisher
	if *redisAddr != "" {
		var err error
		publisher, err = publish.NewRedisPublisher(ctx, *redisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer publisher.Close()
	}

	sink := func(rec motor.Record) {
		server.Publish(rec)
		if database != nil {
			if err := database.RecordCycle(rec); err != nil {
				log.Printf("failed to record cycle: %v", err)
			}
		}
		if publisher != nil {
			publisher.Publish(rec)
		}
	}

	coordinator, err := motor.NewStreamingCoordinator(cfg, sink)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := coordinator.Run(ctx); err != nil {
			log.Printf("coordinator terminated: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		server.WebsocketHub().Run(ctx)
	}()

	if *udpAddr != "" {
		listener := transport.NewUDPListener(transport.UDPListenerConfig{
			Address: *udpAddr,
			Sink:    coordinator,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := listener.Start(ctx); err != nil {
				log.Printf("UDP listener terminated: %v", err)
			}
		}()
	}

	if *serialPort != "" {
		reader, err := transport.NewSerialReader(*serialPort, coordinator)
		if err != nil {
			log.Fatalf("Failed to open serial port: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reader.Monitor(ctx); err != nil {
				log.Printf("serial reader terminated: %v", err)
			}
		}()
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		httpServer := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(server.ServeMux()),
		}

		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("motormon %s (%s) listening on %s", version.Version, version.GitSHA, *listen)
	wg.Wait()
}
