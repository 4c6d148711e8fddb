package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output drives the mixing graph root
// Lock/Unlock guard graph mutation against the streaming goroutine
type Output interface {
	Start(root beep.Streamer) error
	Running() bool
	Lock()
	Unlock()
	Close()
}

// SpeakerOutput plays through the system audio device via beep/speaker
type SpeakerOutput struct {
	sampleRate beep.SampleRate
	buffer     time.Duration
	running    atomic.Bool
}

// NewSpeakerOutput creates an output for the device; nothing opens until Start
func NewSpeakerOutput(sampleRate beep.SampleRate, buffer time.Duration) *SpeakerOutput {
	return &SpeakerOutput{sampleRate: sampleRate, buffer: buffer}
}

// Start initializes the speaker and attaches root
func (o *SpeakerOutput) Start(root beep.Streamer) error {
	if o.running.Load() {
		return nil
	}
	if err := speaker.Init(o.sampleRate, o.sampleRate.N(o.buffer)); err != nil {
		return err
	}
	speaker.Play(root)
	o.running.Store(true)
	return nil
}

// Running reports whether the speaker is streaming
func (o *SpeakerOutput) Running() bool {
	return o.running.Load()
}

func (o *SpeakerOutput) Lock() { speaker.Lock() }
func (o *SpeakerOutput) Unlock() { speaker.Unlock() }

// Close clears the speaker and releases the device
func (o *SpeakerOutput) Close() {
	if !o.running.CompareAndSwap(true, false) {
		return
	}
	speaker.Clear()
	speaker.Close()
}

// ManualOutput is a device-less output advanced explicitly with Pull
// Used in silent mode and by tests to observe rendered samples
type ManualOutput struct {
	mu       sync.Mutex
	root     beep.Streamer
	running  bool
	starts   int
	StartErr error // Returned by Start when set
}

// NewManualOutput creates an idle manual output
func NewManualOutput() *ManualOutput {
	return &ManualOutput{}
}

// Start attaches root unless StartErr is set
func (o *ManualOutput) Start(root beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.StartErr != nil {
		return o.StartErr
	}
	o.root = root
	o.running = true
	o.starts++
	return nil
}

// Running reports whether Start succeeded
func (o *ManualOutput) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Starts returns how many times Start attached the graph
func (o *ManualOutput) Starts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.starts
}

func (o *ManualOutput) Lock() { o.mu.Lock() }
func (o *ManualOutput) Unlock() { o.mu.Unlock() }

// Pull renders n stereo frames from the graph; silence before Start
func (o *ManualOutput) Pull(n int) [][2]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	buf := make([][2]float64, n)
	if o.root == nil {
		return buf
	}
	o.root.Stream(buf)
	return buf
}

// Close detaches the graph
func (o *ManualOutput) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.root = nil
	o.running = false
}
