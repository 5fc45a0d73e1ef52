package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"support-chat/admin"
	"support-chat/bus"
	"support-chat/contract"
	"support-chat/fanout"
	"support-chat/internal"
	"support-chat/routing"
	"support-chat/runtime/workers"
	"support-chat/storage"
	"support-chat/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the engine lifecycle. Keeping
// the logic out of main lets every defer fire before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.GetLoggerFromString(config.LogLevel)

	// 2. Persistence
	db, err := storage.Open(config.DatabaseDSN, log)
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	store := storage.NewStore(db, log)
	roles := storage.NewRoleResolver(db)

	// 3. Routing state & fan-out
	queue := routing.NewWaitQueue(log)
	operators := routing.NewOperatorRegistry(log)
	connections := fanout.NewRegistry(log)

	// 4. Event bus: AMQP when a broker url is configured, loopback otherwise.
	var (
		seen      contract.SeenStore
		publisher contract.Publisher
		bridge    *bus.Bridge
		loopback  *bus.Loopback
		client    *bus.Client
	)
	if config.BrokerEnabled() {
		seen, err = bus.OpenSeenStore(config.DedupFilepath, config.DedupRetention, log)
		if err != nil {
			return fmt.Errorf("dedup store opening failed: %w", err)
		}
	} else {
		seen = bus.NewMemorySeenStore()
	}
	defer func() {
		log.Info("Closing dedup store...")
		_ = seen.Close()
	}()

	bridge = bus.NewBridge(log, seen)
	if config.BrokerEnabled() {
		client, err = bus.Connect(bus.Config{
			URL:        config.AmqpURL,
			InstanceID: config.InstanceID,
			PoolSize:   config.AmqpPoolSize,
			Prefetch:   config.AmqpPrefetch,
		}, log)
		if err != nil {
			return fmt.Errorf("broker connection failed: %w", err)
		}
		defer client.Close()
		publisher = client
	} else {
		loopback = bus.NewLoopback(bridge, log)
		publisher = loopback
		log.Warn("No broker configured, events loop back in process")
	}

	coordinator := routing.NewCoordinator(log, queue, operators, store, publisher, roles)
	bridge.BindEngine(coordinator, connections)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised workers
	sup := workers.NewSupervisor(log)
	sup.Add(
		transport.NewGateway(config.GatewayAddr, config.JWTSecret, coordinator, connections, log),
		admin.NewServer(config.AdminAddr, config.JWTSecret, coordinator, queue, operators, connections, log),
		workers.NewWaitTicker(queue, connections, config.WaitTickInterval, log),
	)
	if client != nil {
		sup.Add(bus.NewConsumer(log, client, bridge))
	}

	log.Info("Engine starting", "instance_id", config.InstanceID)
	sup.Run(ctx)

	if loopback != nil {
		loopback.Drain()
	}
	log.Info("Program stopped cleanly")
	return nil
}
