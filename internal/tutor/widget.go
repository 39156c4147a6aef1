package tutor

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studyflow-backend/internal/events"
	"studyflow-backend/internal/logger"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/voice"
)

var (
	ErrEmptyMessage      = errors.New("message text is required")
	ErrConversationReset = errors.New("conversation was reset before the reply arrived")
)

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.Intn(n) }

type Option func(*Widget)

func WithDelay(d time.Duration) Option { return func(w *Widget) { w.delay = d } }

func WithPicker(p Picker) Option { return func(w *Widget) { w.picker = p } }

func WithClock(now func() time.Time) Option { return func(w *Widget) { w.now = now } }

func WithRecognizer(r voice.Recognizer) Option { return func(w *Widget) { w.recognizer = r } }

func WithSynthesizer(s voice.Synthesizer) Option { return func(w *Widget) { w.synthesizer = s } }

func WithPublisher(p events.Publisher) Option { return func(w *Widget) { w.pub = p } }

// WithCredential marks the widget as connected. The credential itself is
// never used.
func WithCredential(connected bool) Option { return func(w *Widget) { w.connected = connected } }

// Widget is one mounted tutor chat. All methods are safe for concurrent use.
type Widget struct {
	mu           sync.Mutex
	generation   int
	messages     []models.Message
	session      models.TutorSession
	mode         models.TutorMode
	pending      int
	voiceEnabled bool
	draft        string

	capture  *voice.Capture
	playback *voice.Playback

	delay       time.Duration
	picker      Picker
	now         func() time.Time
	recognizer  voice.Recognizer
	synthesizer voice.Synthesizer
	pub         events.Publisher
	connected   bool
	log         zerolog.Logger
}

func New(opts ...Option) *Widget {
	w := &Widget{
		delay:  1500 * time.Millisecond,
		picker: globalPicker{},
		now:    time.Now,
		pub:    events.Nop{},
		log:    logger.Component("tutor"),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.mount()
	return w
}

func (w *Widget) mount() {
	w.generation++
	now := w.now()
	w.messages = []models.Message{{
		ID:        uuid.NewString(),
		Author:    models.AuthorTutor,
		Text:      greeting,
		Timestamp: now,
		Mode:      models.ModeHelp,
	}}
	w.session = models.TutorSession{
		ID:           "session-1",
		Subject:      "General",
		MessageCount: 1,
		StartTime:    now,
		Topics:       []string{},
	}
	w.mode = models.ModeHelp
	w.pending = 0
	w.voiceEnabled = true
	w.draft = ""
	w.capture = voice.NewCapture(w.recognizer)
	w.playback = voice.NewPlayback(w.synthesizer)
}

// Reset discards the conversation and remounts the widget.
func (w *Widget) Reset() {
	_, playback := w.machines()
	playback.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.mount()
}

func (w *Widget) machines() (*voice.Capture, *voice.Playback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.capture, w.playback
}

// SendMessage appends the user's message, waits the simulated latency and
// appends exactly one reply drawn from mode's pool. An empty mode uses the
// currently selected one.
func (w *Widget) SendMessage(ctx context.Context, text string, mode models.TutorMode) (models.Message, models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, models.Message{}, ErrEmptyMessage
	}

	w.mu.Lock()
	if mode == "" {
		mode = w.mode
	}
	if !mode.Valid() {
		mode = models.ModeHelp
	}
	userMsg := models.Message{
		ID:        uuid.NewString(),
		Author:    models.AuthorUser,
		Text:      text,
		Timestamp: w.now(),
	}
	w.messages = append(w.messages, userMsg)
	w.draft = ""
	w.pending++
	generation := w.generation
	w.mu.Unlock()

	if err := w.wait(ctx); err != nil {
		w.mu.Lock()
		if w.generation == generation {
			w.pending--
		}
		w.mu.Unlock()
		return userMsg, models.Message{}, err
	}

	pool := responsePools[mode]

	w.mu.Lock()
	// A remount in the meantime owns a fresh conversation.
	if w.generation != generation {
		w.mu.Unlock()
		w.log.Debug().Msg("tutor reply dropped after reset")
		return userMsg, models.Message{}, ErrConversationReset
	}
	reply := models.Message{
		ID:        uuid.NewString(),
		Author:    models.AuthorTutor,
		Text:      pool[w.picker.IntN(len(pool))],
		Timestamp: w.now(),
		Mode:      mode,
	}
	w.messages = append(w.messages, reply)
	w.pending--
	w.session.MessageCount += 2
	w.session.DurationMinutes = int(w.now().Sub(w.session.StartTime) / time.Minute)
	speak := w.voiceEnabled
	playback := w.playback
	w.mu.Unlock()

	w.log.Debug().
		Str("mode", string(mode)).
		Bool("connected", w.connected).
		Msg("tutor reply generated")
	w.pub.Publish(ctx, models.WSMessage{Type: models.EventTutorMessage, Payload: reply})

	if speak {
		playback.Speak(reply.Text)
	}

	return userMsg, reply, nil
}

func (w *Widget) wait(ctx context.Context) error {
	if w.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(w.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *Widget) Mode() models.TutorMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

func (w *Widget) SetMode(mode models.TutorMode) bool {
	if !mode.Valid() {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = mode
	return true
}

func (w *Widget) SetVoiceEnabled(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.voiceEnabled = enabled
}

func (w *Widget) ToggleVoice() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.voiceEnabled = !w.voiceEnabled
	return w.voiceEnabled
}

func (w *Widget) Session() models.TutorSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.session
	s.Topics = append([]string(nil), w.session.Topics...)
	return s
}

func (w *Widget) Messages() []models.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Message(nil), w.messages...)
}

func (w *Widget) ConnectionLabel() string {
	if w.connected {
		return "Voice AI-Powered (Connected)"
	}
	return "Voice AI-Powered (Browser)"
}

// ToggleListening starts or stops voice capture.
func (w *Widget) ToggleListening() (voice.CaptureState, error) {
	capture, _ := w.machines()
	state, err := capture.Toggle()
	w.publishVoiceState()
	return state, err
}

// HandleTranscript puts the recognized text into the draft input.
func (w *Widget) HandleTranscript(transcript string) {
	capture, _ := w.machines()
	text := capture.HandleResult(transcript)
	w.mu.Lock()
	w.draft = text
	w.mu.Unlock()
	w.publishVoiceState()
}

func (w *Widget) HandleRecognitionError(err error) {
	capture, _ := w.machines()
	capture.HandleError(err)
	w.publishVoiceState()
}

func (w *Widget) HandleRecognitionEnd() {
	capture, _ := w.machines()
	capture.HandleEnd()
	w.publishVoiceState()
}

// Speak reads text aloud when voice output is on and the host can speak.
func (w *Widget) Speak(text string) bool {
	w.mu.Lock()
	enabled, playback := w.voiceEnabled, w.playback
	w.mu.Unlock()
	if !enabled {
		return false
	}
	return playback.Speak(text)
}

func (w *Widget) StopSpeaking() {
	_, playback := w.machines()
	playback.Stop()
	w.publishVoiceState()
}

func (w *Widget) HandleSpeechStart() {
	_, playback := w.machines()
	playback.HandleStart()
	w.publishVoiceState()
}

func (w *Widget) HandleSpeechEnd() {
	_, playback := w.machines()
	playback.HandleEnd()
	w.publishVoiceState()
}

func (w *Widget) HandleSpeechError(err error) {
	_, playback := w.machines()
	playback.HandleError(err)
	w.publishVoiceState()
}

func (w *Widget) publishVoiceState() {
	capture, playback := w.machines()
	w.pub.Publish(context.Background(), models.WSMessage{
		Type: models.EventVoiceState,
		Payload: models.VoiceStateEvent{
			Listening: capture.State() == voice.CaptureListening,
			Speaking:  playback.State() == voice.PlaybackSpeaking,
		},
	})
}

type Snapshot struct {
	Messages          []models.Message    `json:"messages"`
	Session           models.TutorSession `json:"session"`
	Mode              models.TutorMode    `json:"mode"`
	Typing            bool                `json:"typing"`
	VoiceEnabled      bool                `json:"voice_enabled"`
	Draft             string              `json:"draft"`
	Listening         bool                `json:"listening"`
	Speaking          bool                `json:"speaking"`
	RecognitionStatus voice.Capability    `json:"recognition"`
	SynthesisStatus   voice.Capability    `json:"synthesis"`
	ConnectionLabel   string              `json:"connection_label"`
}

func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	snap := Snapshot{
		Messages:        append([]models.Message(nil), w.messages...),
		Session:         w.session,
		Mode:            w.mode,
		Typing:          w.pending > 0,
		VoiceEnabled:    w.voiceEnabled,
		Draft:           w.draft,
		ConnectionLabel: w.ConnectionLabel(),
	}
	snap.Session.Topics = append([]string{}, w.session.Topics...)
	capture, playback := w.capture, w.playback
	w.mu.Unlock()

	snap.Listening = capture.State() == voice.CaptureListening
	snap.Speaking = playback.State() == voice.PlaybackSpeaking
	snap.RecognitionStatus = capture.Capability()
	snap.SynthesisStatus = playback.Capability()
	return snap
}
