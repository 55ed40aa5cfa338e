package main

import (
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/df07/go-octree-pathtracer/cmd"
	"github.com/df07/go-octree-pathtracer/pkg/log"
	"github.com/df07/go-octree-pathtracer/pkg/scene"
)

var logger = log.New("pathtracer")

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "preset, p",
			Value: "default",
			Usage: "built-in scene used when no scene file is given (" + strings.Join(scene.PresetNames(), ", ") + ")",
		},
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a scene file (YAML) or a built-in preset to an image. Settings are
layered: the scene's own hints, then the --config file (TOML or YAML), then
the flags given on the command line.

The output format follows the file extension (png, jpg, bmp or tiff).`,
			ArgsUsage: "[scene.yaml]",
			Flags: append(sceneFlags,
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width (default: the scene's)",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "frame height (default: the scene's)",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 16,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "threads",
					Value: 4,
					Usage: "worker goroutines",
				},
				cli.IntFlag{
					Name:  "max-bounces",
					Value: 16,
					Usage: "maximum bounces per path",
				},
				cli.IntFlag{
					Name:  "min-bounces",
					Value: 3,
					Usage: "bounces before russian roulette may end a path",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Usage: "base seed of the per-pixel random streams",
				},
				cli.BoolFlag{
					Name:  "light-sampling",
					Usage: "sample emitters directly at every bounce",
				},
				cli.StringFlag{
					Name:  "config, c",
					Usage: "render settings file (.toml, .yaml)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename (default: output/<scene>/render_<timestamp>.png)",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "info",
			Usage:     "print scene contents and acceleration statistics",
			ArgsUsage: "[scene.yaml]",
			Flags:     sceneFlags,
			Action:    cmd.Info,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
