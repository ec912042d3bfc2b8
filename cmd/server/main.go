package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ptchwir3/Aetharia/internal/api"
	"github.com/Ptchwir3/Aetharia/internal/broadcast"
	"github.com/Ptchwir3/Aetharia/internal/config"
	"github.com/Ptchwir3/Aetharia/internal/db"
	"github.com/Ptchwir3/Aetharia/internal/physics"
	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/router"
	"github.com/Ptchwir3/Aetharia/internal/session"
	"github.com/Ptchwir3/Aetharia/internal/tile"
	"github.com/Ptchwir3/Aetharia/internal/worldstore"
	"github.com/Ptchwir3/Aetharia/internal/zone"
)

func main() {
	zonesPath := flag.String("zones", "zones.yaml", "path to an optional zone table file")
	noDB := flag.Bool("no-db", false, "run without database (in-memory only)")
	flag.Parse()

	cfg := config.Load(*zonesPath)
	if cfg.Debug {
		log.Printf("debug mode enabled")
	}

	postgres, redisClient := connectStores(*noDB)
	defer postgres.Close()
	defer redisClient.Close()

	registry := player.NewRegistry()
	store := worldstore.New(cfg.WorldSeed)
	if redisClient.IsConnected() {
		store.SetCache(redisClient)
	}
	if postgres.IsConnected() {
		store.SetMutationSink(db.MutationSink{Postgres: postgres, Redis: redisClient})
		if err := loadPersistedOverrides(store, postgres); err != nil {
			log.Printf("aetharia: failed to load persisted overrides: %v", err)
		}
	}

	zones := zone.NewIndex(cfg.Zones)
	hub := broadcast.NewHub(zones)
	sim := physics.New(registry, store, &broadcast.PhysicsNotifier{Hub: hub, Registry: registry})
	msgRouter := router.New()

	sessions := session.NewManager(registry, store, zones, hub, msgRouter, sim, cfg.Heartbeat)

	httpRouter := api.NewRouter(cfg, sessions)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		sim.Run(groupCtx)
		return nil
	})

	if postgres.IsConnected() {
		snapshots := db.NewSnapshotWriter(postgres, registry, 30*time.Second)
		group.Go(func() error {
			snapshots.Run(groupCtx)
			return nil
		})
	}

	group.Go(func() error {
		log.Printf("aetharia: listening on %s (seed=%d)", server.Addr, cfg.WorldSeed)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Println("aetharia: shutting down")
	case <-groupCtx.Done():
		log.Printf("aetharia: stopping: %v", group.Wait())
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("aetharia: forced shutdown: %v", err)
	}

	log.Println("aetharia: server exited")
}

// loadPersistedOverrides replays the durable override log into store
// before any session is accepted, per spec.md §6's recovery contract.
func loadPersistedOverrides(store *worldstore.Store, postgres *db.Postgres) error {
	raw, err := postgres.LoadOverrides(context.Background())
	if err != nil {
		return err
	}
	overrides := make(map[worldstore.Coord]tile.Tile, len(raw))
	for coord, t := range raw {
		overrides[worldstore.Coord{X: coord[0], Y: coord[1]}] = t
	}
	store.LoadOverrides(overrides)
	log.Printf("aetharia: replayed %d persisted overrides", len(overrides))
	return nil
}

// connectStores wires the optional persistence hooks. A connection
// failure is a warning, not a startup error: the core runs correctly
// with persistence entirely absent, matching the teacher's --no-db mode.
func connectStores(noDB bool) (*db.Postgres, *db.Redis) {
	if noDB {
		log.Println("aetharia: running without database (in-memory mode)")
		return &db.Postgres{}, &db.Redis{}
	}

	postgres, err := db.NewPostgres(os.Getenv("AETHARIA_POSTGRES_URL"))
	if err != nil {
		log.Printf("aetharia: postgres unavailable, running without persistence: %v", err)
		postgres = &db.Postgres{}
	}

	redisClient, err := db.NewRedis(os.Getenv("AETHARIA_REDIS_URL"))
	if err != nil {
		log.Printf("aetharia: redis unavailable, running without chunk cache: %v", err)
		redisClient = &db.Redis{}
	}

	return postgres, redisClient
}
