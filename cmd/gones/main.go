// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/config"
	"gones/internal/logging"
	"gones/internal/palette"
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file")
		configFile = flag.String("config", "", "Path to configuration file")
		paletteArg = flag.String("palette", "", "Path to a .pal palette file (overrides config)")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		headless   = flag.Bool("headless", false, "Run without a window, for testing or automation")
		frames     = flag.Int("frames", 120, "Number of frames to run in -headless mode")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	log := logging.New(*debug)

	if *romFile == "" {
		log.Fatal().Msg("a ROM file is required: -rom <file>")
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configFile).Msg("failed to load config")
		}
		cfg = loaded
	}
	if *paletteArg != "" {
		cfg.Palette.Path = *paletteArg
	}

	tints := loadPaletteTable(log, cfg.Palette.Path)

	cart, err := cartridge.LoadFromFile(*romFile)
	if err != nil {
		log.Fatal().Err(err).Str("rom", *romFile).Msg("failed to load ROM")
	}
	log.Info().
		Str("rom", *romFile).
		Int("mapper", cart.Header.Mapper).
		Str("header", cart.Header.Type.String()).
		Msg("ROM loaded")

	sys := bus.New(tints)
	sys.LoadCartridge(cart)

	setupGracefulShutdown(log)

	if *headless {
		runHeadless(log, sys, *frames)
		return
	}

	runGUI(log, sys, cfg)
}

// loadPaletteTable loads an external palette file if one was configured,
// falling back to the built-in NTSC table on any error.
func loadPaletteTable(log zerolog.Logger, path string) *palette.Table {
	if path == "" {
		return palette.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to open palette file, using default")
		return palette.Default()
	}
	defer f.Close()

	t, err := palette.Load(f)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to parse palette file, using default")
		return palette.Default()
	}

	return t
}

func runHeadless(log zerolog.Logger, sys *bus.System, frames int) {
	log.Info().Int("frames", frames).Msg("running headless")
	for i := 0; i < frames; i++ {
		sys.RunFrame()
	}
	log.Info().Uint64("cpu_cycles", sys.CPUCycles()).Msg("headless run complete")
}

func runGUI(log zerolog.Logger, sys *bus.System, cfg *config.Config) {
	ebiten.SetWindowTitle("gones")
	ebiten.SetWindowSize(nesWidth*gameScale, nesHeight*gameScale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	sampleRate := cfg.Audio.SampleRate
	if sampleRate == 0 {
		sampleRate = 44100
	}
	frontend := newFrontend(sys, sampleRate)

	log.Info().Msg("starting GUI loop")
	if err := ebiten.RunGame(frontend); err != nil {
		log.Fatal().Err(err).Msg("GUI loop exited with error")
	}
	log.Info().Msg("shutting down")
}

func setupGracefulShutdown(log zerolog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("interrupt received, shutting down")
		os.Exit(0)
	}()
}

func printUsage() {
	fmt.Println("gones - Go NES Emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones -rom <file> [options]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS (Player 1):")
	fmt.Println("  Arrow Keys - D-Pad")
	fmt.Println("  J          - A Button")
	fmt.Println("  K          - B Button")
	fmt.Println("  Enter      - Start")
	fmt.Println("  Space      - Select")
	fmt.Println("  Escape     - Quit")
}
