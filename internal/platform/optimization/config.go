// Package optimization provides concurrency tuning for high load.
// Buffer sizes and pool limits for the server wiring live here so load
// tests can swap profiles without code changes.
package optimization

import (
	"runtime"
)

// Config holds tuned parameters for high-load scenarios.
type Config struct {
	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Connection pools
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Hub timing
	EventPollIntervalMs int
	StatePushIntervalMs int

	// Persistence timing
	SnapshotIntervalSec int

	// Rate limiting
	MaxActionsPerSecond int
	MaxClientsPerGame   int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		BroadcastChannelBuffer: 256, // Handle bursts
		ClientSendBuffer:       64,  // Per WebSocket

		DBMaxOpenConns: numCPU * 4, // 4 connections per CPU
		DBMaxIdleConns: numCPU * 2, // Keep half warm

		EventPollIntervalMs: 200,
		StatePushIntervalMs: 500,

		SnapshotIntervalSec: 5,

		MaxActionsPerSecond: 20, // Per client; clicking is the whole game
		MaxClientsPerGame:   200,
	}
}

// StressTestConfig returns aggressive settings for stress testing.
func StressTestConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		BroadcastChannelBuffer: 512,
		ClientSendBuffer:       128,

		DBMaxOpenConns: numCPU * 8,
		DBMaxIdleConns: numCPU * 4,

		EventPollIntervalMs: 100,
		StatePushIntervalMs: 250,

		SnapshotIntervalSec: 2,

		MaxActionsPerSecond: 100,
		MaxClientsPerGame:   500,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 5,
		DBMaxIdleConns: 2,

		EventPollIntervalMs: 500,
		StatePushIntervalMs: 1000,

		SnapshotIntervalSec: 15,

		MaxActionsPerSecond: 10,
		MaxClientsPerGame:   20,
	}
}

// Recommendations provides suggestions based on observed metrics.
type Recommendations struct {
	IncreaseBroadcastBuffer bool
	IncreaseDBConnections   bool
	SlowDownStatePush       bool
	Notes                   []string
}

// Analyze examines current metrics and returns optimization recommendations.
func Analyze(metrics map[string]interface{}) *Recommendations {
	rec := &Recommendations{
		Notes: make([]string, 0),
	}

	// Check tick latency
	if tick, ok := metrics["tick"].(map[string]interface{}); ok {
		if maxLat, ok := tick["max_latency_ms"].(float64); ok && maxLat > 100 {
			rec.SlowDownStatePush = true
			rec.Notes = append(rec.Notes, "Tick latency exceeds 100ms - reduce state push frequency")
		}
	}

	// Check event write latency
	if events, ok := metrics["events"].(map[string]interface{}); ok {
		if maxLat, ok := events["max_write_lat_ms"].(float64); ok && maxLat > 50 {
			rec.IncreaseDBConnections = true
			rec.Notes = append(rec.Notes, "Event write latency exceeds 50ms - increase DB connections")
		}
		if errors, ok := events["errors"].(int64); ok && errors > 0 {
			rec.IncreaseDBConnections = true
			rec.Notes = append(rec.Notes, "Event write errors detected - check DB connection pool")
		}
	}

	// Check WebSocket backpressure
	if ws, ok := metrics["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			rec.IncreaseBroadcastBuffer = true
			rec.Notes = append(rec.Notes, "WebSocket errors detected - increase client send buffer")
		}
	}

	return rec
}

// ApplyRecommendations modifies config based on recommendations.
func ApplyRecommendations(config *Config, rec *Recommendations) *Config {
	if rec.IncreaseBroadcastBuffer {
		config.BroadcastChannelBuffer *= 2
		config.ClientSendBuffer *= 2
	}
	if rec.IncreaseDBConnections {
		config.DBMaxOpenConns = int(float64(config.DBMaxOpenConns) * 1.5)
		config.DBMaxIdleConns = int(float64(config.DBMaxIdleConns) * 1.5)
	}
	if rec.SlowDownStatePush {
		config.StatePushIntervalMs *= 2
	}
	return config
}
