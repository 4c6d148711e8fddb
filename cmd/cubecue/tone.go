package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/spf13/cobra"
)

var (
	toneFreq     float64
	toneDuration time.Duration
	toneOut      string
)

var toneCmd = &cobra.Command{
	Use:   "tone <name>...",
	Short: "Write placeholder sine tones as WAV assets",
	Long:  `Generate a sine tone for each name into the output directory, so the catalog can be exercised without the real sound pack.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTone,
}

func init() {
	toneCmd.Flags().Float64VarP(&toneFreq, "freq", "f", 440, "tone frequency in Hz")
	toneCmd.Flags().DurationVarP(&toneDuration, "duration", "d", 200*time.Millisecond, "tone length")
	toneCmd.Flags().StringVarP(&toneOut, "out", "o", "assets", "output directory")
	rootCmd.AddCommand(toneCmd)
}

func runTone(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(toneOut, 0755); err != nil {
		return err
	}
	rate := beep.SampleRate(cfg.Audio.SampleRate)
	for _, name := range args {
		path := filepath.Join(toneOut, name+".wav")
		if err := writeTone(path, rate, toneFreq, toneDuration); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// writeTone encodes d of a sine at freq into a 16-bit stereo WAV file
func writeTone(path string, rate beep.SampleRate, freq float64, d time.Duration) error {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	return wav.Encode(f, beep.Take(rate.N(d), tone), format)
}
