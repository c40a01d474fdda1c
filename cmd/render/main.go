// Command render runs the solver offline and writes PNG frames plus a
// centerline velocity profile plot. Lattice and obstacle settings come from
// the same environment variables the server reads; run control comes from
// flags.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"latticeflow/internal/config"
	"latticeflow/internal/lbm"
	"latticeflow/internal/render"

	"github.com/joho/godotenv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func main() {
	steps := flag.Int("steps", 5000, "number of solver steps to run")
	every := flag.Int("every", 500, "write a frame every N steps (0 = final frame only)")
	outDir := flag.String("out", "frames", "output directory")
	fieldName := flag.String("field", "", "field to render (default from RENDER_FIELD)")
	profile := flag.Bool("profile", true, "write a centerline velocity profile plot")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	appConfig := config.Load()
	latCfg := appConfig.Lattice

	name := *fieldName
	if name == "" {
		name = appConfig.Render.Field
	}
	field, err := render.ParseField(name)
	if err != nil {
		log.Fatal(err)
	}

	sim, err := buildSimulation(latCfg, appConfig.Obstacle)
	if err != nil {
		log.Fatalf("simulation setup failed: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating %s: %v", *outDir, err)
	}

	log.Printf("running %d steps on %dx%d, tau=%.4f", *steps, sim.Width(), sim.Height(), sim.Tau())

	engine := lbm.NewEngine(sim, 1) // cadence unused; we step directly
	renderer := render.NewFieldRenderer(sim.Width(), sim.Height(), appConfig.Render.Scale)
	overlay := render.NewOverlay(renderer.Size())

	start := time.Now()
	for i := 1; i <= *steps; i++ {
		if err := sim.Step(); err != nil {
			log.Printf("step %d: %v", i, err)
			break
		}
		if *every > 0 && i%*every == 0 {
			if err := writeFrame(engine, renderer, overlay, field, *outDir, i); err != nil {
				log.Fatalf("writing frame at step %d: %v", i, err)
			}
			log.Printf("step %d: wrote frame (mass=%.4f)", i, sim.TotalMass())
		}
	}
	log.Printf("finished %d steps in %s", sim.Steps(), time.Since(start).Round(time.Millisecond))

	if err := writeFrame(engine, renderer, overlay, field, *outDir, int(sim.Steps())); err != nil {
		log.Fatalf("writing final frame: %v", err)
	}

	if *profile {
		path := filepath.Join(*outDir, "centerline.png")
		if err := writeCenterlineProfile(sim, path); err != nil {
			log.Fatalf("writing profile: %v", err)
		}
		log.Printf("wrote %s", path)
	}
}

// writeFrame publishes the current fields through the engine's snapshot
// path and encodes one overlaid PNG.
func writeFrame(engine *lbm.Engine, renderer *render.FieldRenderer, overlay *render.Overlay, field render.Field, dir string, step int) error {
	engine.PublishNow()
	snap := engine.Snapshot()

	path := filepath.Join(dir, fmt.Sprintf("%s_%06d.png", field, step))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render.EncodePNG(f, renderer, overlay, snap, field)
}

// writeCenterlineProfile plots streamwise speed along the horizontal
// centerline, the standard sanity check for channel flow.
func writeCenterlineProfile(sim *lbm.Simulation, path string) error {
	y := sim.Height() / 2

	pts := make(plotter.XYs, 0, sim.Width())
	for x := 0; x < sim.Width(); x++ {
		ux, uy, err := sim.Velocity(x, y)
		if err != nil {
			return err
		}
		pts = append(pts, plotter.XY{X: float64(x), Y: math.Hypot(ux, uy)})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Centerline speed after %d steps", sim.Steps())
	p.X.Label.Text = "x (cells)"
	p.Y.Label.Text = "|u| (lattice units)"

	if err := plotutil.AddLinePoints(p, "centerline", pts); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// buildSimulation mirrors the server's setup so offline runs reproduce the
// served flow exactly.
func buildSimulation(latCfg config.LatticeConfig, obsCfg config.ObstacleConfig) (*lbm.Simulation, error) {
	shape, err := buildShape(obsCfg, latCfg.Width, latCfg.Height)
	if err != nil {
		return nil, err
	}

	tau := latCfg.Tau
	if latCfg.Reynolds > 0 && shape != nil {
		tau = lbm.RelaxationTimeFor(latCfg.InletSpeed, shape.CharacteristicLength(), latCfg.Reynolds)
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
