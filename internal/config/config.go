// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all solver and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// LATTICE CONFIGURATION
// =============================================================================

// LatticeConfig holds the solver grid and relaxation settings.
type LatticeConfig struct {
	Width        int     // Lattice width in cells
	Height       int     // Lattice height in cells
	Tau          float64 // BGK relaxation time; must be above 0.5
	Reynolds     float64 // Target Reynolds number; 0 means use Tau directly
	InletSpeed   float64 // Inlet x-velocity in lattice units
	InletDensity float64 // Inlet density
	Workers      int     // Row bands swept in parallel; 0 picks a default
	StepsPerSec  int     // Engine step rate
}

// DefaultLattice returns the default lattice configuration.
// The inlet speed stays well below the lattice Mach limit so the
// incompressible assumption holds.
func DefaultLattice() LatticeConfig {
	return LatticeConfig{
		Width:        400,
		Height:       160,
		Tau:          0.55,
		Reynolds:     0,
		InletSpeed:   0.1,
		InletDensity: 1.0,
		Workers:      0,
		StepsPerSec:  120,
	}
}

// LatticeFromEnv returns lattice configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func LatticeFromEnv() LatticeConfig {
	cfg := DefaultLattice()

	if w := getEnvInt("LATTICE_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("LATTICE_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if tau := getEnvFloat("LATTICE_TAU", 0); tau > 0 {
		cfg.Tau = tau
	}
	if re := getEnvFloat("LATTICE_REYNOLDS", 0); re > 0 {
		cfg.Reynolds = re
	}
	if u := getEnvFloat("INLET_SPEED", 0); u > 0 {
		cfg.InletSpeed = u
	}
	if rho := getEnvFloat("INLET_DENSITY", 0); rho > 0 {
		cfg.InletDensity = rho
	}
	if w := getEnvInt("LATTICE_WORKERS", 0); w > 0 {
		cfg.Workers = w
	}
	if sps := getEnvInt("STEPS_PER_SEC", 0); sps > 0 {
		cfg.StepsPerSec = sps
	}

	return cfg
}

// =============================================================================
// OBSTACLE CONFIGURATION
// =============================================================================

// ObstacleConfig describes the immersed body placed in the channel.
type ObstacleConfig struct {
	Kind   string  // "none", "circle" or "naca"
	CX     float64 // Center x as a fraction of lattice width
	CY     float64 // Center y as a fraction of lattice height
	Radius float64 // Circle radius as a fraction of lattice height
	Chord  float64 // Airfoil chord as a fraction of lattice width
	Angle  float64 // Airfoil angle of attack in degrees
	Digits string  // NACA 4-digit designation, e.g. "0012"
}

// DefaultObstacle returns a cylinder in the first third of the channel,
// the classic vortex street setup.
func DefaultObstacle() ObstacleConfig {
	return ObstacleConfig{
		Kind:   "circle",
		CX:     0.25,
		CY:     0.5,
		Radius: 0.125,
	}
}

// ObstacleFromEnv returns obstacle configuration with environment variable overrides.
func ObstacleFromEnv() ObstacleConfig {
	cfg := DefaultObstacle()

	if k := os.Getenv("OBSTACLE_KIND"); k != "" {
		cfg.Kind = strings.ToLower(k)
	}
	if v := getEnvFloat("OBSTACLE_CX", -1); v >= 0 {
		cfg.CX = v
	}
	if v := getEnvFloat("OBSTACLE_CY", -1); v >= 0 {
		cfg.CY = v
	}
	if v := getEnvFloat("OBSTACLE_RADIUS", 0); v > 0 {
		cfg.Radius = v
	}
	if v := getEnvFloat("OBSTACLE_CHORD", 0); v > 0 {
		cfg.Chord = v
	}
	if v := os.Getenv("OBSTACLE_ANGLE"); v != "" {
		cfg.Angle = getEnvFloat("OBSTACLE_ANGLE", 0)
	}
	if d := os.Getenv("OBSTACLE_NACA"); d != "" {
		cfg.Digits = d
	}

	return cfg
}

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds frame output settings.
type RenderConfig struct {
	Scale int    // Pixels per lattice cell
	Field string // Default field for frames: density, speed or vorticity
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		Scale: 4,
		Field: "speed",
	}
}

// RenderFromEnv returns render configuration with environment variable overrides.
func RenderFromEnv() RenderConfig {
	cfg := DefaultRender()

	if s := getEnvInt("RENDER_SCALE", 0); s > 0 {
		cfg.Scale = s
	}
	if f := os.Getenv("RENDER_FIELD"); f != "" {
		cfg.Field = strings.ToLower(f)
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int
	DebugPort int // Localhost observability server; 0 disables it
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      3000,
		DebugPort: 6060,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if dp := getEnvInt("DEBUG_PORT", -1); dp >= 0 {
		cfg.DebugPort = dp
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Lattice  LatticeConfig
	Obstacle ObstacleConfig
	Render   RenderConfig
	Server   ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Lattice:  LatticeFromEnv(),
		Obstacle: ObstacleFromEnv(),
		Render:   RenderFromEnv(),
		Server:   ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
