package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mozaik-game/mozaik"
)

var logger *slog.Logger

func main() {
	configPath := flag.String("config", "", "path to config file")
	mozaik.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] image\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	cfg.ApplyFlags(flag.CommandLine)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v\n", err)
	}

	level, err := mozaik.ResolveLogLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	mozaik.SetLogger(logger)

	imagePath := flag.Arg(0)
	game, err := NewGame(cfg, imagePath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	ebiten.SetWindowSize(1024, 768)
	ebiten.SetWindowTitle(fmt.Sprintf("mozaik : %s", imagePath))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("%v\n", err)
	}
}

func loadConfig(path string) (mozaik.Config, error) {
	if path != "" {
		return mozaik.LoadConfig(path)
	}
	return mozaik.LoadDefaultConfig()
}
