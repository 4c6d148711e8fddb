package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cubecue/asset"
	"github.com/lixenwraith/cubecue/audio"
	"github.com/lixenwraith/cubecue/config"
	"github.com/lixenwraith/cubecue/coordinator"
	"github.com/lixenwraith/cubecue/core"
	"github.com/lixenwraith/cubecue/game"
	"github.com/lixenwraith/cubecue/service"
)

var (
	cfgFile   string
	assetDirs []string
	debug     bool
	tracing   bool

	cfg           config.Config
	logFile       *os.File
	traceShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:           "cubecue",
	Short:         "Sound cues for the cube word game",
	Long:          `Load the cube game's sound catalog, play individual cues and run scripted sessions through the audio coordinator.`,
	SilenceUsage:  true,
	SilenceErrors: false,

	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringSliceVarP(&assetDirs, "asset-dir", "a", nil, "asset directories searched in order (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write logs to "+logDir+"/"+logFileName)
	rootCmd.PersistentFlags().BoolVar(&tracing, "trace", false, "print trace spans to stderr")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("asset-dir") {
		cfg.AssetDirs = assetDirs
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("trace") {
		cfg.Trace = tracing
	}

	logFile = setupLogging(cfg.Debug)

	traceShutdown, err = setupTracing(cfg.Trace, cmd.ErrOrStderr())
	return err
}

func teardown(cmd *cobra.Command, args []string) error {
	var err error
	if traceShutdown != nil {
		err = traceShutdown(context.Background())
	}
	if logFile != nil {
		logFile.Close()
	}
	return err
}

// provider builds the ordered asset search path from the configuration
func provider() *asset.Provider {
	sources := make([]asset.Source, 0, len(cfg.AssetDirs))
	for _, dir := range cfg.AssetDirs {
		sources = append(sources, asset.Dir(dir))
	}
	return asset.NewProvider(sources...)
}

// runtime is the started service graph shared by commands
type runtime struct {
	hub      *service.Hub
	audio    *audio.AudioService
	sessions *coordinator.SessionService
}

// startRuntime starts the audio and session services
// With a config file the category volumes follow edits to it
func startRuntime(dict game.Dictionary, preload ...core.Sound) (*runtime, error) {
	rt := &runtime{hub: service.NewHub()}
	rt.audio = audio.NewService(provider(), audio.WithPreload(preload...))
	rt.sessions = coordinator.NewSessionService(rt.audio)

	if err := rt.hub.Register(rt.audio, cfg.AudioEngine()); err != nil {
		return nil, err
	}
	if err := rt.hub.Register(rt.sessions, dict, cfg.ShakeInterval); err != nil {
		return nil, err
	}
	if err := rt.hub.InitAll(); err != nil {
		return nil, err
	}
	if err := rt.hub.StartAll(); err != nil {
		return nil, err
	}

	if rt.audio.IsDisabled() {
		log.Printf("[cubecue] no audio output, running silent")
	}

	if cfgFile != "" {
		_, err := config.Watch(cfgFile, func(next config.Config) {
			log.Printf("[cubecue] config changed, music %.2f effects %.2f",
				next.Audio.MusicVolume, next.Audio.SoundEffectsVolume)
			rt.audio.ApplyVolumes(next.Audio.MusicVolume, next.Audio.SoundEffectsVolume)
		})
		if err != nil {
			log.Printf("[cubecue] config watch disabled: %v", err)
		}
	}
	return rt, nil
}

func (rt *runtime) stop() error {
	if err := rt.hub.StopAll(); err != nil {
		return fmt.Errorf("stopping services: %w", err)
	}
	return nil
}
