// Package main is the entry point for the idle game authoritative server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/engine"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/infra/storage"
	"github.com/JaySchenk/idleAiGame-sub000/internal/network"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/metrics"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/optimization"
)

const gameID = "GAME_1" // Default singleton game ID

// DBPersisterAdapter translates domain events to storage records.
type DBPersisterAdapter struct {
	repo *storage.SQLEventRepository
}

func (a *DBPersisterAdapter) Append(event events.GameEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	record := storage.EventRecord{
		ID:        event.ID,
		GameID:    gameID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Payload:   payloadMap,
		Tick:      event.Tick,
	}

	started := time.Now()
	err := a.repo.Append(context.Background(), record)
	metrics.Get().RecordEventWrite(time.Since(started), err)
	return err
}

func loadContentPack(appLogger *logger.Logger) *config.ContentPack {
	path := os.Getenv("CONTENT_PACK")
	if path == "" {
		appLogger.Info("No CONTENT_PACK set, using the built-in pack.")
		return config.Default()
	}
	pack, err := config.Load(path)
	if err != nil {
		appLogger.Error("Failed to load content pack " + path + ": " + err.Error())
		os.Exit(1)
	}
	appLogger.Info("Loaded content pack from " + path)
	return pack
}

func restoreSnapshot(ctx context.Context, repo *storage.SQLSnapshotRepository, eng *engine.Engine, appLogger *logger.Logger) {
	rec, err := repo.Load(ctx, gameID)
	if err != nil {
		appLogger.Error("Failed to query DB for snapshot: " + err.Error())
		return
	}
	if rec == nil {
		appLogger.Info("Database empty. Starting a fresh game.")
		return
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(rec.Data, &snap); err != nil {
		appLogger.Error("Failed to decode stored snapshot: " + err.Error())
		return
	}
	eng.Restore(snap)
	appLogger.Info("Restored game state from database snapshot.")
}

func saveSnapshot(ctx context.Context, repo *storage.SQLSnapshotRepository, eng *engine.Engine, appLogger *logger.Logger) {
	data, err := json.Marshal(eng.Snapshot())
	if err != nil {
		appLogger.Error("Failed to encode snapshot: " + err.Error())
		return
	}
	if err := repo.Save(ctx, gameID, data); err != nil {
		appLogger.Error("Failed to persist snapshot: " + err.Error())
	}
}

func main() {
	log.Println("[IDLE-SERVER] Initializing idle game authoritative server...")

	appLogger := logger.NewLogger()
	tuning := optimization.DefaultConfig()

	appLogger.Info("Opening database...")
	db, err := storage.OpenFromEnv()
	if err != nil {
		appLogger.Error("Failed to open database: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()
	db.SQL.SetMaxOpenConns(tuning.DBMaxOpenConns)
	db.SQL.SetMaxIdleConns(tuning.DBMaxIdleConns)

	eventRepo := storage.NewSQLEventRepository(db)
	snapRepo := storage.NewSQLSnapshotRepository(db)
	eventPersister := &DBPersisterAdapter{repo: eventRepo}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("Bootstrapping Engine...")
	pack := loadContentPack(appLogger)
	gameEngine := engine.NewEngine(pack, eventLog, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restoreSnapshot(ctx, snapRepo, gameEngine, appLogger)
	gameEngine.Start()

	scheduler := engine.NewScheduler(gameEngine, appLogger)
	scheduler.Start(ctx)

	// Automated state backup routine
	go func() {
		backupTicker := time.NewTicker(time.Duration(tuning.SnapshotIntervalSec) * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				saveSnapshot(ctx, snapRepo, gameEngine, appLogger)
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameEngine, appLogger, tuning)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)
	hub.StartStatePusher(ctx)

	reconstructor := storage.NewReconstructor(eventRepo)

	// Setup API routes
	http.HandleFunc("/ws", hub.ServeWS)

	http.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gameEngine.View())
	})

	http.HandleFunc("/api/click", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		earned := gameEngine.Click()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "earned": earned})
	})

	http.HandleFunc("/api/generator/buy", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if !gameEngine.BuyGenerator(req.ID) {
			http.Error(w, "Purchase rejected", http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "owned": gameEngine.GeneratorOwned(req.ID)})
	})

	http.HandleFunc("/api/upgrade/buy", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if !gameEngine.BuyUpgrade(req.ID) {
			http.Error(w, "Purchase rejected", http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	http.HandleFunc("/api/prestige", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !gameEngine.Prestige() {
			http.Error(w, "Prestige threshold not reached", http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "ok",
			"level":      gameEngine.PrestigeLevel(),
			"multiplier": gameEngine.PrestigeMultiplier(),
		})
	})

	http.HandleFunc("/api/narrative/next", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ev := gameEngine.NextPendingNarrative()
		w.Header().Set("Content-Type", "application/json")
		if ev == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "narrative": nil})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "narrative": ev})
	})

	http.HandleFunc("/api/events/summary", func(w http.ResponseWriter, r *http.Request) {
		summary, err := reconstructor.Summarize(r.Context(), gameID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	})

	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	go func() {
		log.Println("[IDLE-SERVER] HTTP API & WS server listening on " + addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[IDLE-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[IDLE-SERVER] Shutting down...")
	scheduler.Stop()
	eventLog.Close()
	saveSnapshot(context.Background(), snapRepo, gameEngine, appLogger)
}
