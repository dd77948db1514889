package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empathyengine/empathyengine/internal/voice"
)

func TestGoogleCloudEngine_Name(t *testing.T) {
	e := NewGoogleCloudEngine(zerolog.Nop(), &GoogleCloudConfig{})
	assert.Equal(t, "googlecloud", e.Name())
}

func TestGoogleCloudEngine_Availability(t *testing.T) {
	t.Run("unavailable without credentials", func(t *testing.T) {
		e := NewGoogleCloudEngine(zerolog.Nop(), &GoogleCloudConfig{})
		assert.False(t, e.IsAvailable())

		_, err := e.Synthesize(context.Background(), "hi", voice.Parameters{})
		assert.ErrorIs(t, err, ErrEngineUnavailable)
	})

	t.Run("available with token and project", func(t *testing.T) {
		e := NewGoogleCloudEngine(zerolog.Nop(), &GoogleCloudConfig{
			AccessToken: "tok",
			Project:     "proj",
		})
		assert.True(t, e.IsAvailable())
	})

	t.Run("availability tracks the key file", func(t *testing.T) {
		keyFile := t.TempDir() + "/key.json"
		e := NewGoogleCloudEngine(zerolog.Nop(), &GoogleCloudConfig{
			AccessToken:     "tok",
			Project:         "proj",
			CredentialsPath: keyFile,
		})
		assert.False(t, e.IsAvailable(), "file absent")

		require.NoError(t, os.WriteFile(keyFile, []byte("{}"), 0600))
		assert.True(t, e.IsAvailable(), "file present")
	})
}

func TestGoogleCloudEngine_Synthesize(t *testing.T) {
	mp3 := []byte("fake-mp3-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "proj", r.Header.Get("x-goog-user-project"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		input := body["input"].(map[string]any)
		assert.Equal(t, "hello world", input["text"])
		vc := body["voice"].(map[string]any)
		assert.Equal(t, "en-US-Wavenet-H", vc["name"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString(mp3),
		})
	}))
	defer server.Close()

	e := NewGoogleCloudEngine(zerolog.Nop(), &GoogleCloudConfig{
		AccessToken: "tok",
		Project:     "proj",
		Endpoint:    server.URL,
		Timeout:     5 * time.Second,
	})

	audio, err := e.Synthesize(context.Background(), "hello world", voice.Parameters{
		Voice:        "en-US-Wavenet-H",
		Language:     "en-US",
		Gender:       "FEMALE",
		SpeakingRate: 1.2,
	})
	require.NoError(t, err)

	assert.Equal(t, mp3, audio.Data)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
}

func TestGoogleCloudEngine_SynthesizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: "bad token"},
		{name: "garbage body", status: http.StatusOK, body: "not json"},
		{name: "bad base64", status: http.StatusOK, body: `{"audioContent":"%%%"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			e := NewGoogleCloudEngine(zerolog.Nop(), &GoogleCloudConfig{
				AccessToken: "tok",
				Project:     "proj",
				Endpoint:    server.URL,
				Timeout:     5 * time.Second,
			})

			_, err := e.Synthesize(context.Background(), "hi", voice.Parameters{})
			assert.ErrorIs(t, err, ErrSynthesisFailed)
		})
	}
}
