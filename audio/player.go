package audio

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// player is a loaded handle; all methods run on the manager goroutine under the output lock
type player interface {
	play(loop bool) error
	stop()
	setVolume(vol float64)
	volume() float64
	close() error
}

// gainFor maps a normalized volume onto effects.Gain, which scales by 1+Gain
func gainFor(vol float64) float64 {
	return vol - 1
}

// musicPlayer streams a seekable decoded file; every play restarts at offset zero
type musicPlayer struct {
	stream  beep.StreamSeekCloser
	rate    beep.SampleRate
	outRate beep.SampleRate
	mixer   *beep.Mixer

	vol     float64
	looping bool

	// Current playback chain: ctrl -> gain -> fade -> [resample] -> [loop] -> stream
	ctrl *beep.Ctrl
	gain *effects.Gain
	fade *fader
}

func (p *musicPlayer) play(loop bool) error {
	p.stop()
	if err := p.stream.Seek(0); err != nil {
		return err
	}

	var s beep.Streamer = p.stream
	if loop {
		s = beep.Loop(-1, p.stream)
	}
	if p.rate != p.outRate {
		s = beep.Resample(resampleQuality, p.rate, p.outRate, s)
	}

	p.fade = newFader(s)
	p.gain = &effects.Gain{Streamer: p.fade, Gain: gainFor(p.vol)}
	p.ctrl = &beep.Ctrl{Streamer: p.gain}
	p.looping = loop
	p.mixer.Add(p.ctrl)
	return nil
}

// fadeOut ramps the current chain to silence over n frames
func (p *musicPlayer) fadeOut(n int) {
	if p.fade != nil {
		p.fade.rampTo(0, n)
	}
}

// stop detaches the chain; the mixer drops it on its next pass
func (p *musicPlayer) stop() {
	if p.ctrl != nil {
		p.ctrl.Streamer = nil
	}
	p.ctrl, p.gain, p.fade = nil, nil, nil
	p.looping = false
}

func (p *musicPlayer) setVolume(vol float64) {
	p.vol = vol
	if p.gain != nil {
		p.gain.Gain = gainFor(vol)
	}
}

func (p *musicPlayer) volume() float64 { return p.vol }

func (p *musicPlayer) position() int { return p.stream.Position() }

func (p *musicPlayer) close() error {
	p.stop()
	return p.stream.Close()
}

// effectPlayer is a decoded buffer plus its playback node on the effects bus
type effectPlayer struct {
	buffer *beep.Buffer
	mixer  *beep.Mixer
	vol    float64

	ctrl *beep.Ctrl
	gain *effects.Gain
}

// play always stops the node first so each call restarts from the beginning
func (p *effectPlayer) play(loop bool) error {
	p.stop()

	var s beep.Streamer = p.buffer.Streamer(0, p.buffer.Len())
	if loop {
		s = beep.Loop(-1, p.buffer.Streamer(0, p.buffer.Len()))
	}

	p.gain = &effects.Gain{Streamer: s, Gain: gainFor(p.vol)}
	p.ctrl = &beep.Ctrl{Streamer: p.gain}
	p.mixer.Add(p.ctrl)
	return nil
}

func (p *effectPlayer) stop() {
	if p.ctrl != nil {
		p.ctrl.Streamer = nil
	}
	p.ctrl, p.gain = nil, nil
}

func (p *effectPlayer) setVolume(vol float64) {
	p.vol = vol
	if p.gain != nil {
		p.gain.Gain = gainFor(vol)
	}
}

func (p *effectPlayer) volume() float64 { return p.vol }

func (p *effectPlayer) close() error {
	p.stop()
	return nil
}

// fader scales samples by a level that ramps linearly toward a target
type fader struct {
	beep.Streamer
	level     float64
	target    float64
	step      float64
	remaining int
}

func newFader(s beep.Streamer) *fader {
	return &fader{Streamer: s, level: 1, target: 1}
}

// rampTo schedules a linear ramp over n frames; n <= 0 jumps immediately
func (f *fader) rampTo(target float64, n int) {
	f.target = target
	if n <= 0 {
		f.level = target
		f.remaining = 0
		return
	}
	f.step = (target - f.level) / float64(n)
	f.remaining = n
}

func (f *fader) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)
	for i := range samples[:n] {
		if f.remaining > 0 {
			f.level += f.step
			f.remaining--
			if f.remaining == 0 {
				f.level = f.target
			}
		}
		samples[i][0] *= f.level
		samples[i][1] *= f.level
	}
	return n, ok
}
