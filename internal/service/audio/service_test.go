package audio

import (
	"context"
	"testing"

	"github.com/solacehq/solace/backend/internal/config"
)

func testConfig(t *testing.T) config.AudioConfig {
	t.Helper()
	return config.AudioConfig{
		BaseURL:   "https://api.example.com/v1",
		ASRModel:  "whisper-1",
		TTSModel:  "tts-1",
		TTSVoice:  "alloy",
		UploadDir: t.TempDir(),
	}
}

func TestTranscribeFallsBackWithoutCredentials(t *testing.T) {
	svc := NewService(testConfig(t))

	transcript := svc.Transcribe(context.Background(), []byte{0x01}, "clip.wav", "en-US")
	if transcript.Remote {
		t.Fatal("expected local fallback without credentials")
	}
	if transcript.Text == "" {
		t.Fatal("fallback transcript must carry guidance text")
	}
}

func TestSynthesizeFallsBackToBrowserTTS(t *testing.T) {
	svc := NewService(testConfig(t))

	synth := svc.Synthesize(context.Background(), "hello there", "")
	if !synth.BrowserTTS {
		t.Fatal("expected browser TTS instruction without credentials")
	}
	if synth.Text != "hello there" {
		t.Fatalf("fallback should echo text, got %q", synth.Text)
	}
	if synth.Voice != "alloy" {
		t.Fatalf("expected configured default voice, got %q", synth.Voice)
	}
}

func TestFileIDDeterministic(t *testing.T) {
	if FileID("hi", "alloy") != FileID("hi", "alloy") {
		t.Fatal("same input must map to same id")
	}
	if FileID("hi", "alloy") == FileID("hi", "onyx") {
		t.Fatal("different voice must map to different id")
	}
}

func TestFilePathMissing(t *testing.T) {
	svc := NewService(testConfig(t))

	if _, ok := svc.FilePath("does-not-exist"); ok {
		t.Fatal("expected miss for unknown file id")
	}
}
