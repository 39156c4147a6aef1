// Package voice models the host's speech capture and playback capabilities as
// two small, independent state machines. The real capability lives outside
// this process; a nil Recognizer or Synthesizer means the host lacks it.
package voice

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"studyflow-backend/internal/logger"
)

var ErrRecognitionUnsupported = errors.New("speech recognition is not supported in this environment")

// Capability tells whether a host feature is present.
type Capability string

const (
	Available   Capability = "available"
	Unavailable Capability = "unavailable"
)

// Recognizer starts and stops speech-to-text capture. Results arrive later
// through Capture.HandleResult, HandleError and HandleEnd.
type Recognizer interface {
	Start() error
	Stop()
}

// Synthesizer plays an utterance. Start, end and error events arrive later
// through the Playback handlers.
type Synthesizer interface {
	Speak(u Utterance) error
	Cancel()
}

type Utterance struct {
	Text   string  `json:"text"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

func NewUtterance(text string) Utterance {
	return Utterance{Text: text, Rate: 0.9, Pitch: 1, Volume: 0.8}
}

type CaptureState string

const (
	CaptureIdle      CaptureState = "idle"
	CaptureListening CaptureState = "listening"
)

// Capture is the idle → listening → idle machine for voice input.
type Capture struct {
	mu    sync.Mutex
	rec   Recognizer
	state CaptureState
	log   zerolog.Logger
}

func NewCapture(rec Recognizer) *Capture {
	return &Capture{
		rec:   rec,
		state: CaptureIdle,
		log:   logger.Component("voice-capture"),
	}
}

func (c *Capture) Capability() Capability {
	if c.rec == nil {
		return Unavailable
	}
	return Available
}

func (c *Capture) State() CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Toggle starts listening when idle and stops it when listening.
func (c *Capture) Toggle() (CaptureState, error) {
	if c.rec == nil {
		return CaptureIdle, ErrRecognitionUnsupported
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CaptureListening {
		c.rec.Stop()
		c.state = CaptureIdle
		return c.state, nil
	}

	c.state = CaptureListening
	if err := c.rec.Start(); err != nil {
		c.log.Error().Err(err).Msg("speech recognition failed to start")
		c.state = CaptureIdle
		return c.state, fmt.Errorf("failed to start speech recognition: %w", err)
	}
	c.log.Debug().Msg("voice input started")
	return c.state, nil
}

// HandleResult accepts the final transcript and returns to idle.
func (c *Capture) HandleResult(transcript string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = CaptureIdle
	c.log.Debug().Str("transcript", transcript).Msg("voice input received")
	return transcript
}

func (c *Capture) HandleError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Error().Err(err).Msg("speech recognition error")
	c.state = CaptureIdle
}

func (c *Capture) HandleEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = CaptureIdle
}

type PlaybackState string

const (
	PlaybackIdle     PlaybackState = "idle"
	PlaybackSpeaking PlaybackState = "speaking"
)

// Playback is the idle → speaking → idle machine for voice output.
type Playback struct {
	mu    sync.Mutex
	synth Synthesizer
	state PlaybackState
	log   zerolog.Logger
}

func NewPlayback(synth Synthesizer) *Playback {
	return &Playback{
		synth: synth,
		state: PlaybackIdle,
		log:   logger.Component("voice-playback"),
	}
}

func (p *Playback) Capability() Capability {
	if p.synth == nil {
		return Unavailable
	}
	return Available
}

func (p *Playback) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Speak cancels whatever is playing and queues text. It reports whether
// anything was sent to the synthesizer.
func (p *Playback) Speak(text string) bool {
	if p.synth == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.synth.Cancel()
	p.state = PlaybackIdle
	if err := p.synth.Speak(NewUtterance(text)); err != nil {
		p.log.Error().Err(err).Msg("text-to-speech error")
		return false
	}
	return true
}

// Stop cancels playback and returns to idle.
func (p *Playback) Stop() {
	if p.synth == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.synth.Cancel()
	p.state = PlaybackIdle
}

func (p *Playback) HandleStart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PlaybackSpeaking
	p.log.Debug().Msg("text-to-speech started")
}

func (p *Playback) HandleEnd() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PlaybackIdle
	p.log.Debug().Msg("text-to-speech completed")
}

func (p *Playback) HandleError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.log.Error().Err(err).Msg("text-to-speech error")
	p.state = PlaybackIdle
}
