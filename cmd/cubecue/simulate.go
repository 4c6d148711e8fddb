package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cubecue/core"
	"github.com/lixenwraith/cubecue/game"
)

var (
	simTick time.Duration
	simDemo bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted timed game through the audio coordinator",
	Long: `Replay a short timed game: intro music, a selection that shakes a fully used cube,
a scored word, a dropped selection, the final countdown and game over.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().DurationVarP(&simTick, "tick", "t", 250*time.Millisecond, "pause between scripted steps")
	simulateCmd.Flags().BoolVar(&simDemo, "demo", false, "play as a demo session")
	rootCmd.AddCommand(simulateCmd)
}

// step is one scripted transition
type step struct {
	label  string
	action game.Action
	next   func(game.Snapshot) game.Snapshot
	hold   time.Duration
}

// script builds the transitions of a timed game over a four-cube row
func script(shake time.Duration) (game.Snapshot, []step) {
	cubes, path := game.Row("CABS")
	cubes = cubes.WithUse(path[0].Index, game.MaxUseCount)

	start := game.Snapshot{
		Mode:     game.ModeTimed,
		Cubes:    cubes,
		Language: game.LanguageEnglish,
		IsDemo:   simDemo,
	}

	selectN := func(n int) func(game.Snapshot) game.Snapshot {
		return func(s game.Snapshot) game.Snapshot {
			s.Selection = path[:n]
			return s
		}
	}

	steps := []step{
		{label: "appear", action: game.ActionOnAppear, next: func(s game.Snapshot) game.Snapshot { return s }},
		{label: "select C", action: game.ActionTapCube, next: selectN(1)},
		{label: "select CA", action: game.ActionTapCube, next: selectN(2), hold: 2 * shake},
		{label: "select CAB", action: game.ActionTapCube, next: selectN(3), hold: 2 * shake},
		{label: "submit CAB", action: game.ActionConfirmSubmit, next: func(s game.Snapshot) game.Snapshot {
			s.Moves = append(append([]game.Move{}, s.Moves...), game.Move{
				Kind:     game.MovePlayedWord,
				Faces:    s.Selection,
				PlayedAt: time.Now(),
			})
			s.Selection = nil
			return s
		}},
		{label: "select AB", action: game.ActionTapCube, next: func(s game.Snapshot) game.Snapshot {
			s.Selection = path[1:3]
			return s
		}},
		{label: "submit AB", action: game.ActionSubmitButtonTapped, next: func(s game.Snapshot) game.Snapshot {
			s.Selection = nil
			return s
		}},
	}

	total := game.ModeTimed.Seconds()
	for sec := total - 11; sec <= total; sec++ {
		steps = append(steps, step{
			label:  fmt.Sprintf("second %d", sec),
			action: game.ActionTimerTick,
			next: func(s game.Snapshot) game.Snapshot {
				s.SecondsPlayed = sec
				return s
			},
		})
	}

	steps = append(steps, step{label: "game over", action: game.ActionOther, next: func(s game.Snapshot) game.Snapshot {
		s.GameOver = true
		return s
	}})
	return start, steps
}

func runSimulate(cmd *cobra.Command, args []string) error {
	dict := game.NewWordList(game.LanguageEnglish, "CA", "CAB", "CABS", "AB", "BAS")

	rt, err := startRuntime(dict, core.Catalog()...)
	if err != nil {
		return err
	}
	defer rt.stop()

	session, err := rt.sessions.NewSession()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s\n", session.Session())

	prev, steps := script(cfg.ShakeInterval)
	for _, st := range steps {
		next := st.next(prev)
		session.Handle(prev, next, st.action)
		report(out, st, next)
		prev = next

		time.Sleep(simTick + st.hold)
	}

	session.Stop()
	// Let the music fade finish before the output closes
	time.Sleep(cfg.Audio.FadeOut)

	if _, err := session.Metrics().WriteTo(out); err != nil {
		return err
	}
	if m := rt.audio.Manager(); m != nil {
		if _, err := m.Metrics().WriteTo(out); err != nil {
			return err
		}
	}
	return nil
}

func report(w io.Writer, st step, s game.Snapshot) {
	line := fmt.Sprintf("%-12s %-22s selection=%q", st.label, st.action, s.SelectedWord())
	if word, ok := s.LastPlayedWord(); ok {
		line += fmt.Sprintf(" last=%q", word)
	}
	fmt.Fprintln(w, line)
}
