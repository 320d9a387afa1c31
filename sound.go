package main

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Sound effects. WAV files listed in the asset manifest are decoded into
// buffers at startup; playback resamples into one shared speaker. A failed
// decode mutes that effect only.

var (
	soundMu      sync.Mutex
	soundBuffers = map[string]*beep.Buffer{}
	soundFormat  beep.Format
	soundReady   bool
)

func initSoundContext() {
	soundFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	if err := speaker.Init(soundFormat.SampleRate, soundFormat.SampleRate.N(time.Second/10)); err != nil {
		logError("init speaker: %v", err)
		return
	}
	soundReady = true
}

func loadSounds(assetDir string, m *assetManifest) {
	if !soundReady {
		return
	}
	for name, file := range m.Sounds {
		f, err := os.Open(filepath.Join(assetDir, file))
		if err != nil {
			logError("load sound %q: %v", name, err)
			continue
		}
		streamer, format, err := wav.Decode(f)
		if err != nil {
			f.Close()
			logError("decode sound %q: %v", name, err)
			continue
		}
		buf := beep.NewBuffer(format)
		buf.Append(streamer)
		streamer.Close()
		soundMu.Lock()
		soundBuffers[name] = buf
		soundMu.Unlock()
	}
}

// playSound fires a named effect at the settings volume. Unknown names are
// silent; sound is never load-bearing.
func playSound(name string) {
	if !soundReady || gs.Muted {
		return
	}
	soundMu.Lock()
	buf := soundBuffers[name]
	soundMu.Unlock()
	if buf == nil {
		return
	}
	s := buf.Streamer(0, buf.Len())
	resampled := beep.Resample(4, buf.Format().SampleRate, soundFormat.SampleRate, s)
	vol := &effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   (gs.Volume - 1) * 4, // 1.0 → unity gain
		Silent:   gs.Volume <= 0,
	}
	speaker.Play(vol)
}
