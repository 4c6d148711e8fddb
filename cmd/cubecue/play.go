package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cubecue/core"
	"github.com/lixenwraith/cubecue/game"
)

var (
	playMusic    bool
	playLoop     bool
	playDuration time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <name>",
	Short: "Play one sound from the asset directories",
	Long:  `Load a single sound by name and play it. Music stops with the configured fade when the duration elapses or on interrupt.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playMusic, "music", "m", false, "treat the sound as music")
	playCmd.Flags().BoolVarP(&playLoop, "loop", "l", false, "repeat until stopped")
	playCmd.Flags().DurationVarP(&playDuration, "for", "d", 3*time.Second, "how long to play")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	sound := core.Effect(args[0])
	if playMusic {
		sound = core.Music(args[0])
	}

	rt, err := startRuntime(game.WordList{})
	if err != nil {
		return err
	}
	defer rt.stop()

	player := rt.audio.Player()
	if err := player.Load(cmd.Context(), sound); err != nil {
		return fmt.Errorf("loading %s: %w", sound, err)
	}

	if playLoop {
		err = player.Loop(sound)
	} else {
		err = player.Play(sound)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "playing %s\n", sound)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	select {
	case <-ctx.Done():
	case <-time.After(playDuration):
	}

	if err := player.Stop(sound); err != nil {
		return err
	}
	if sound.Category == core.CategoryMusic {
		// Let the fade finish before the output closes
		waitFade(context.Background(), cfg.Audio.FadeOut)
	}
	return nil
}

func waitFade(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
