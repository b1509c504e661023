package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/gonesis/gonesis"
	"github.com/valerio/gonesis/gonesis/cartridge"
	"github.com/valerio/gonesis/gonesis/config"
)

func main() {
	app := cli.NewApp()
	app.Name = "gonesis"
	app.Usage = "a cycle accurate NES emulator"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a YAML settings file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "One of debug, info, warn, error (overrides the config file)",
		},
	}
	app.Before = setupLogging
	app.Commands = []cli.Command{
		runCommand,
		infoCommand,
		hashCommand,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("gonesis failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadSettings reads the config file, if any, and applies flag overrides.
func loadSettings(c *cli.Context) (config.File, error) {
	settings := config.Default()
	if path := c.GlobalString("config"); path != "" {
		var err error
		if settings, err = config.Load(path); err != nil {
			return settings, err
		}
	}

	if c.GlobalIsSet("log-level") {
		settings.LogLevel = c.GlobalString("log-level")
	}
	if c.IsSet("seed") {
		settings.Seed = c.Int64("seed")
	}
	if c.IsSet("sample-rate") {
		settings.SampleRate = c.Int("sample-rate")
	}
	if c.IsSet("scale") {
		settings.Scale = c.Int("scale")
	}
	if c.IsSet("limiter") {
		settings.Limiter = c.String("limiter")
	}
	return settings, settings.Validate()
}

func romArgument(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return "", errors.New("no ROM path provided")
	}
	return c.Args().First(), nil
}

// newConsole loads the ROM named on the command line.
func newConsole(c *cli.Context, settings config.File) (*gonesis.Console, error) {
	path, err := romArgument(c)
	if err != nil {
		return nil, err
	}
	cart, err := cartridge.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return gonesis.NewConsole(cart, settings.Console())
}

var seedFlag = cli.Int64Flag{
	Name:  "seed",
	Usage: "Seed for power-on RAM contents",
}

var infoCommand = cli.Command{
	Name:      "info",
	Usage:     "Print the parsed cartridge header",
	ArgsUsage: "<ROM file>",
	Action: func(c *cli.Context) error {
		path, err := romArgument(c)
		if err != nil {
			return err
		}
		cart, err := cartridge.LoadFile(path)
		if err != nil {
			return err
		}
		mapper, err := cartridge.NewMapper(cart)
		if err != nil {
			return err
		}

		h := cart.Header
		fmt.Printf("mapper:     %d.%d (%s)\n", h.Mapper, h.Submapper, mapper.Name())
		fmt.Printf("prg rom:    %d KiB\n", len(cart.PRGROM())/1024)
		if cart.HasCHRRAM() {
			fmt.Printf("chr:        RAM\n")
		} else {
			fmt.Printf("chr rom:    %d KiB\n", len(cart.CHRROM())/1024)
		}
		fmt.Printf("mirroring:  %s\n", h.Mirroring)
		fmt.Printf("battery:    %t\n", h.HasBattery)
		fmt.Printf("trainer:    %t\n", h.HasTrainer)
		fmt.Printf("nes 2.0:    %t\n", h.NES2)
		return nil
	},
}

var hashCommand = cli.Command{
	Name:      "hash",
	Usage:     "Run headless for a number of frames and print the frame checksum",
	ArgsUsage: "<ROM file>",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run",
			Value: 60,
		},
		seedFlag,
	},
	Action: func(c *cli.Context) error {
		settings, err := loadSettings(c)
		if err != nil {
			return err
		}
		console, err := newConsole(c, settings)
		if err != nil {
			return err
		}
		for range c.Int("frames") {
			console.RunUntilFrame()
		}
		fmt.Printf("%016x\n", console.FrameBuffer().Checksum())
		return nil
	},
}
