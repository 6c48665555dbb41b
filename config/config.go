package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning the
// details of game hosting. Command line flags override them.
var (
	TickInterval = getEnvDuration("TICK_MS", 50*time.Millisecond)
	TickBurst    = getEnvInt("TICK_BURST", 1)
	MaxTurns     = getEnvInt("MAX_TURNS", 100000)
	MaxGridSize  = getEnvInt("MAX_GRID", 256)
	FrameBuffer  = getEnvInt("FRAME_BUFFER", 4096)
	MaxConns     = getEnvInt("MAX_CONNS", 256)
	MaxGames     = getEnvInt("MAX_GAMES", 1024)
	LogLevel     = getEnvString("LOG_LEVEL", "info")
)

// TickLimiter returns a limiter releasing one tick per interval.
func TickLimiter(interval time.Duration, burst int) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(interval), burst)
}

func getEnvString(varName string, defaults string) string {
	if val := os.Getenv(varName); val != "" {
		return val
	}
	return defaults
}

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}

// getEnvDuration reads a millisecond count.
func getEnvDuration(varName string, defaults time.Duration) time.Duration {
	ms := getEnvInt(varName, -1)
	if ms < 0 {
		return defaults
	}
	return time.Duration(ms) * time.Millisecond
}
