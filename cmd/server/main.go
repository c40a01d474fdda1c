package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"latticeflow/internal/api"
	"latticeflow/internal/config"
	"latticeflow/internal/lbm"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file; environment variables still win.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	log.Println("================================")
	log.Println(" LATTICEFLOW - D2Q9 LBM SOLVER")
	log.Println("================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	latCfg := appConfig.Lattice
	serverCfg := appConfig.Server

	sim, err := buildSimulation(latCfg, appConfig.Obstacle)
	if err != nil {
		log.Fatalf("simulation setup failed: %v", err)
	}

	log.Printf("lattice: %dx%d, tau=%.4f, inlet u=%.3f rho=%.3f",
		sim.Width(), sim.Height(), sim.Tau(), latCfg.InletSpeed, latCfg.InletDensity)
	if appConfig.Obstacle.Kind != "none" {
		log.Printf("obstacle: %s", appConfig.Obstacle.Kind)
	}

	engine := lbm.NewEngine(sim, latCfg.StepsPerSec)

	// Step metrics flow through the engine hook so the solver core stays
	// free of the metrics dependency.
	engine.OnStep = func(d time.Duration, err error) {
		api.RecordStep(d, err)
		snap := engine.Snapshot()
		api.UpdateFieldStats(snap.TotalMass, snap.MaxSpeed)
	}

	// Start debug server (pprof + prometheus), localhost only
	if serverCfg.DebugPort > 0 {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = fmt.Sprintf("127.0.0.1:%d", serverCfg.DebugPort)
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	engine.Start()

	server := api.NewServer(engine, appConfig.Render.Scale)
	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	server.Stop()
	engine.Stop()
}

// buildSimulation assembles the lattice, obstacle and relaxation time from
// configuration.
func buildSimulation(latCfg config.LatticeConfig, obsCfg config.ObstacleConfig) (*lbm.Simulation, error) {
	shape, err := buildShape(obsCfg, latCfg.Width, latCfg.Height)
	if err != nil {
		return nil, err
	}

	tau := latCfg.Tau
	if latCfg.Reynolds > 0 && shape != nil {
		tau = lbm.RelaxationTimeFor(latCfg.InletSpeed, shape.CharacteristicLength(), latCfg.Reynolds)
		log.Printf("Re=%.0f gives tau=%.4f", latCfg.Reynolds, tau)
	}

	bc := lbm.DefaultBoundaries()
	bc.InletDensity = latCfg.InletDensity
	bc.InletVelocityX = latCfg.InletSpeed

	sim, err := lbm.New(latCfg.Width, latCfg.Height, tau, bc)
	if err != nil {
		return nil, err
	}
	if latCfg.Workers > 0 {
		sim.SetWorkers(latCfg.Workers)
	}
	if shape != nil {
		if err := sim.AddObstacle(shape); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// buildShape maps obstacle configuration, given in lattice fractions, to a
// concrete shape in cell coordinates.
func buildShape(cfg config.ObstacleConfig, width, height int) (lbm.Shape, error) {
	w := float64(width)
	h := float64(height)

	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "circle":
		return lbm.Circle{
			CX: cfg.CX * w,
			CY: cfg.CY * h,
			R:  cfg.Radius * h,
		}, nil
	case "naca":
		digits := cfg.Digits
		if digits == "" {
			digits = "0012"
		}
		m, p, t, err := lbm.ParseNACA4(digits)
		if err != nil {
			return nil, err
		}
		chord := cfg.Chord
		if chord <= 0 {
			chord = 0.25
		}
		return lbm.NACA4{
			CX:    cfg.CX * w,
			CY:    cfg.CY * h,
			Chord: chord * w,
			M:     m,
			P:     p,
			T:     t,
			Angle: cfg.Angle * math.Pi / 180,
		}, nil
	default:
		return nil, fmt.Errorf("unknown obstacle kind %q", cfg.Kind)
	}
}
