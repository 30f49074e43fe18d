// fixpipe - fixed-function software rasterizer
// Renders the demo scenes, or a scene described in a TOML or YAML file, in
// the terminal, in a desktop window or to PNG files.
//
// Controls (view and window):
//
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	W/S/A/D     - Orbit up/down/left/right
//	+/-         - Adjust zoom
//	Space       - Pause the spin
//	X           - Toggle wireframe
//	M           - Cycle flat/Gouraud/Phong shading
//	L           - Toggle lighting
//	R           - Reset the camera
//	?           - Toggle HUD overlay (terminal only)
//	Esc, Q      - Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/fixpipe/pkg/host"
	"github.com/taigrr/fixpipe/pkg/host/window"
	"github.com/taigrr/fixpipe/pkg/render"
	"github.com/taigrr/fixpipe/pkg/scene"
)

const controls = `Controls:
  Mouse drag  - Orbit the camera
  Scroll      - Zoom in/out
  W/S/A/D     - Orbit up/down/left/right
  +/-         - Adjust zoom
  Space       - Pause the spin
  X           - Toggle wireframe
  M           - Cycle flat/Gouraud/Phong shading
  L           - Toggle lighting
  R           - Reset the camera
  ?           - Toggle HUD overlay (terminal only)
  Esc, Q      - Quit`

// options are the flags shared by every subcommand.
type options struct {
	debug      bool
	configPath string
	sceneName  string
	fps        int
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "fixpipe",
		Short: "Fixed-function software rasterizer",
		Long: "fixpipe draws triangles through a fixed-function pipeline on the CPU:\n" +
			"transform, clip, cull, then wireframe or perspective-correct fill with\n" +
			"flat, Gouraud or Phong lighting.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), opts.debug)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "Log device and scene details to stderr")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Scene file (.toml, .yaml); overrides --scene")
	flags.StringVarP(&opts.sceneName, "scene", "s", "cube", "Demo scene to show (see 'fixpipe demos')")
	flags.IntVar(&opts.fps, "fps", 60, "Target FPS")

	root.AddCommand(
		newViewCmd(opts),
		newWindowCmd(opts),
		newRenderCmd(opts),
		newDemosCmd(),
	)
	return root
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadScene builds the scene named by the flags. A config file wins over
// --scene.
func (o *options) loadScene() (*scene.Scene, error) {
	if o.configPath != "" {
		cfg, err := scene.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		s := scene.NewFromConfig(cfg)
		render.Logger().Info("scene loaded", "path", o.configPath, "scene", s.Name())
		return s, nil
	}
	s, err := scene.New(o.sceneName)
	if err != nil {
		return nil, err
	}
	render.Logger().Info("scene selected", "scene", s.Name())
	return s, nil
}

func newViewCmd(opts *options) *cobra.Command {
	var hud, watch bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show a scene in the terminal",
		Long:  "Show a scene in the terminal, two pixels per cell.\n\n" + controls,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			t := &host.Terminal{Scene: s, FPS: opts.fps, ShowHUD: hud}
			if watch {
				if opts.configPath == "" {
					return errors.New("--watch needs --config")
				}
				t.ConfigPath = opts.configPath
			}
			return t.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&hud, "hud", true, "Show the HUD overlay")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the --config file when it changes")
	return cmd
}

func newWindowCmd(opts *options) *cobra.Command {
	var scale int
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show a scene in a desktop window",
		Long:  "Show a scene in a desktop window at the scene's resolution.\n\n" + controls,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			w := &window.Window{Scene: s, FPS: opts.fps, Scale: scale}
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&scale, "scale", 1, "Window size as a multiple of the scene size")
	return cmd
}

func newRenderCmd(opts *options) *cobra.Command {
	var (
		frames int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames to PNG files",
		Long: "Render a scene headless into numbered PNG files. Frames are spaced\n" +
			"1/fps seconds apart, so the output does not depend on machine speed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1, got %d", frames)
			}
			if opts.fps < 1 {
				return fmt.Errorf("--fps must be at least 1, got %d", opts.fps)
			}
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			n, err := renderFrames(cmd.Context(), s, frames, opts.fps, out)
			if err != nil {
				return err
			}
			render.Logger().Info("frames written", "count", n, "dir", out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 1, "Number of frames to render")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Output directory")
	return cmd
}

// renderFrames draws frames into dir and returns how many were written. The
// first frame shows the scene before any spin.
func renderFrames(ctx context.Context, s *scene.Scene, frames, fps int, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	d := render.NewDevice(s.Config.Width, s.Config.Height)
	if err := s.Setup(d); err != nil {
		return 0, err
	}
	p := render.NewPNGPresenter(dir)
	d.SetPresenter(p)

	var presentErr error
	err := host.NewFixedLoop(1/float64(fps)).Run(ctx, func(dt float64) bool {
		d.ResetStats()
		s.Draw(d)
		if presentErr = d.Present(); presentErr != nil {
			return false
		}
		s.Update(dt)
		return p.Frames() < frames
	})
	if err == nil {
		err = presentErr
	}
	return p.Frames(), err
}

func newDemosCmd() *cobra.Command {
	var dump, format string
	cmd := &cobra.Command{
		Use:   "demos",
		Short: "List the demo scenes",
		Long: "List the demo scenes. With --dump, print a demo as a scene file that\n" +
			"can be edited and passed back with --config.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if dump != "" {
				demo, ok := scene.Lookup(dump)
				if !ok {
					return fmt.Errorf("%w %q", scene.ErrUnknownScene, dump)
				}
				data, err := scene.MarshalConfig(demo.Config(), "."+strings.TrimPrefix(format, "."))
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			width := 0
			for _, demo := range scene.Scenes() {
				width = max(width, len(demo.Name))
			}
			for _, demo := range scene.Scenes() {
				fmt.Fprintf(out, "  %-*s  %s\n", width, demo.Name, demo.Description)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dump, "dump", "", "Print the named demo as a scene file")
	cmd.Flags().StringVar(&format, "format", "toml", "Format for --dump: toml or yaml")
	return cmd
}
