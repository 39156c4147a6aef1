package voice

import (
	"context"

	"studyflow-backend/internal/events"
	"studyflow-backend/internal/models"
)

// RemoteRecognizer drives the browser's speech recognition by publishing
// voice commands. The browser reports results back through the API.
type RemoteRecognizer struct {
	Publisher events.Publisher
	Lang      string
}

func (r *RemoteRecognizer) Start() error {
	r.Publisher.Publish(context.Background(), models.WSMessage{
		Type:    models.EventVoiceCommand,
		Payload: models.VoiceCommand{Action: "listen_start", Lang: r.lang()},
	})
	return nil
}

func (r *RemoteRecognizer) Stop() {
	r.Publisher.Publish(context.Background(), models.WSMessage{
		Type:    models.EventVoiceCommand,
		Payload: models.VoiceCommand{Action: "listen_stop"},
	})
}

func (r *RemoteRecognizer) lang() string {
	if r.Lang == "" {
		return "en-US"
	}
	return r.Lang
}

// RemoteSynthesizer drives the browser's speech synthesis.
type RemoteSynthesizer struct {
	Publisher events.Publisher
}

func (s *RemoteSynthesizer) Speak(u Utterance) error {
	s.Publisher.Publish(context.Background(), models.WSMessage{
		Type: models.EventVoiceCommand,
		Payload: models.VoiceCommand{
			Action: "speak",
			Text:   u.Text,
			Rate:   u.Rate,
			Pitch:  u.Pitch,
			Volume: u.Volume,
		},
	})
	return nil
}

func (s *RemoteSynthesizer) Cancel() {
	s.Publisher.Publish(context.Background(), models.WSMessage{
		Type:    models.EventVoiceCommand,
		Payload: models.VoiceCommand{Action: "speak_cancel"},
	})
}
