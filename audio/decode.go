package audio

import (
	"fmt"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/cubecue/asset"
	"github.com/lixenwraith/cubecue/core"
)

type decoder func(a *asset.Asset) (beep.StreamSeekCloser, beep.Format, error)

// decoders keyed by lowercase file extension
var decoders = map[string]decoder{
	".mp3":  func(a *asset.Asset) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(a) },
	".ogg":  func(a *asset.Asset) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(a) },
	".flac": func(a *asset.Asset) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(a) },
	".wav":  func(a *asset.Asset) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(a) },
}

func decodeStream(a *asset.Asset) (beep.StreamSeekCloser, beep.Format, error) {
	d, ok := decoders[a.Ext]
	if !ok {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, a.Ext)
	}
	return d(a)
}

// decodeMusic keeps the stream open for seekable playback
func decodeMusic(a *asset.Asset, mixer *beep.Mixer, outRate beep.SampleRate) (*musicPlayer, error) {
	stream, format, err := decodeStream(a)
	if err != nil {
		return nil, err
	}
	return &musicPlayer{
		stream:  stream,
		rate:    format.SampleRate,
		outRate: outRate,
		mixer:   mixer,
		vol:     1,
	}, nil
}

// decodeEffect reads the whole asset into a buffer at the output format
func decodeEffect(s core.Sound, a *asset.Asset, mixer *beep.Mixer, out beep.Format) (*effectPlayer, error) {
	stream, format, err := decodeStream(a)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != out.SampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, out.SampleRate, stream)
	}

	buf := beep.NewBuffer(out)
	buf.Append(src)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.Origin, err)
	}
	if buf.Len() == 0 {
		return nil, &BufferAllocationError{Sound: s}
	}

	return &effectPlayer{
		buffer: buf,
		mixer:  mixer,
		vol:    1,
	}, nil
}
