// tinyrender - software rasterizer for OBJ and glTF meshes
//
// Renders a mesh to an image file with flat directional shading, a flat
// fill or a wireframe. Several inputs are rendered concurrently into an
// output directory. With -view the mesh is shown in the terminal instead.
//
// Viewer controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	M           - Cycle shaded / flat / wire
//	F           - Toggle fill strategy
//	X           - Toggle screen axes
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/taigrr/tinyrender/internal/batch"
	"github.com/taigrr/tinyrender/internal/config"
	"github.com/taigrr/tinyrender/internal/scene"
	"github.com/taigrr/tinyrender/pkg/render"
)

var (
	configPath = flag.String("config", "", "Path to JSON config file")
	outPath    = flag.String("o", "", "Output image for a single input (.png .jpg .bmp .tga .webp)")
	outDir     = flag.String("outdir", "", "Output directory for several inputs")
	format     = flag.String("format", "", "Output format for several inputs (png, jpg, bmp, tga, webp)")
	width      = flag.Int("width", 0, "Image width (default 800)")
	height     = flag.Int("height", 0, "Image height (default 800)")
	light      = flag.String("light", "", "Light direction x,y,z (default 0,0,1)")
	colorFlag  = flag.String("color", "", "Base color R,G,B (default 255,255,255)")
	bgColor    = flag.String("bg", "", "Background color R,G,B (default 0,0,0)")
	backdrop   = flag.String("backdrop", "", "Image drawn behind the mesh")
	strategy   = flag.String("strategy", "", "Triangle fill: barycentric or scanline")
	mode       = flag.String("mode", "", "Render mode: shaded, flat or wire")
	fit        = flag.Bool("fit", false, "Center and scale the mesh to fill the image")
	workers    = flag.Int("workers", 0, "Concurrent renders for several inputs (default NumCPU)")
	verbose    = flag.Bool("v", false, "Debug logging")
	demo       = flag.Bool("demo", false, "Render the reference triangle instead of a mesh")
	view       = flag.Bool("view", false, "Show the mesh in the terminal")
	targetFPS  = flag.Int("fps", 30, "Target FPS for -view")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tinyrender - software mesh rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  tinyrender [options] -o out.png <model.obj|model.glb>\n")
		fmt.Fprintf(os.Stderr, "  tinyrender [options] -outdir renders <model>...\n")
		fmt.Fprintf(os.Stderr, "  tinyrender -view [options] <model>\n")
		fmt.Fprintf(os.Stderr, "  tinyrender -demo [-o demo.png]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if !*demo && flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	setupLogging()

	var cfg config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	cfg.Resolve(config.Flags{
		Width:      *width,
		Height:     *height,
		OutputDir:  *outDir,
		Format:     *format,
		Light:      *light,
		Color:      *colorFlag,
		Background: *bgColor,
		Backdrop:   *backdrop,
		Strategy:   *strategy,
		Mode:       *mode,
		Fit:        *fit,
		Workers:    *workers,
	})
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *demo:
		out := *outPath
		if out == "" {
			out = "demo.png"
		}
		return scene.Demo(settings.Strategy).Save(out)
	case *view:
		// Log lines would tear the alternate screen.
		if !*verbose {
			render.SetLogger(nil)
		}
		return runViewer(ctx, flag.Arg(0), settings)
	case flag.NArg() == 1 && *outDir == "":
		return renderOne(flag.Arg(0), settings)
	default:
		return renderMany(ctx, flag.Args(), settings)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func renderOne(in string, s config.Settings) error {
	out := *outPath
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out = base + "." + s.Format
	}

	stats, err := scene.RenderFile(in, out, s)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s (%d/%d faces drawn, %d culled, %d degenerate)\n",
		filepath.Base(in), out, stats.FacesDrawn, stats.FacesTested, stats.FacesCulled, stats.FacesDegenerate)
	return nil
}

func renderMany(ctx context.Context, inputs []string, s config.Settings) error {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	results, err := batch.Run(ctx, batch.Plan(inputs, s), s)
	for _, r := range results {
		if r.Input == "" {
			continue
		}
		if r.Success {
			fmt.Printf("  ok    %s -> %s (%v)\n", r.Input, r.Output, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Printf("  FAIL  %s: %s\n", r.Input, r.Error)
		}
	}
	if err != nil {
		return err
	}

	ok, failed := batch.Summary(results)
	fmt.Printf("Rendered %d/%d (%d failed) into %s\n", ok, len(inputs), failed, s.OutputDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}
