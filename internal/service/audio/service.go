package audio

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/solacehq/solace/backend/internal/config"
)

// Service converts between text and audio through an OpenAI-compatible
// audio API. Both directions degrade gracefully when the backend is
// unconfigured or unreachable: transcription returns a placeholder and
// synthesis hands the text back for browser-side speech.
type Service struct {
	cfg    config.AudioConfig
	client *http.Client
}

// NewService prepares the audio client and its upload directory.
func NewService(cfg config.AudioConfig) *Service {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Printf("[audio] failed to create upload dir %s: %v", cfg.UploadDir, err)
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled reports whether remote audio processing is configured.
func (s *Service) Enabled() bool { return s.cfg.Enabled() }

// Transcript is the transcription result. Remote is false when the
// placeholder fallback answered.
type Transcript struct {
	Text   string `json:"text"`
	Remote bool   `json:"remote"`
}

// Transcribe converts audio bytes to text, falling back to a placeholder
// when the remote engine is unavailable.
func (s *Service) Transcribe(ctx context.Context, audioData []byte, filename, language string) *Transcript {
	if s.Enabled() {
		text, err := s.transcribeRemote(ctx, audioData, filename, language)
		if err == nil {
			return &Transcript{Text: text, Remote: true}
		}
		log.Printf("[audio] remote transcription failed: %v", err)
	}

	return &Transcript{
		Text:   "Audio transcription not available. Please enable the remote engine or use browser speech recognition.",
		Remote: false,
	}
}

func (s *Service) transcribeRemote(ctx context.Context, audioData []byte, filename, language string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audioData); err != nil {
		return "", err
	}
	_ = writer.WriteField("model", s.cfg.ASRModel)
	if language != "" {
		// The API expects a bare language code, not a locale.
		_ = writer.WriteField("language", strings.SplitN(language, "-", 2)[0])
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.cfg.BaseURL, "/")+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription status %d", resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Text, nil
}

// Synthesis describes a synthesized utterance. When BrowserTTS is set the
// caller should speak the text client-side instead of fetching AudioURL.
type Synthesis struct {
	AudioURL   string `json:"audioUrl,omitempty"`
	FileSize   int64  `json:"fileSize,omitempty"`
	BrowserTTS bool   `json:"browserTts,omitempty"`
	Text       string `json:"text,omitempty"`
	Voice      string `json:"voice,omitempty"`
}

// Synthesize renders text to a cached audio file and returns its URL, or a
// browser-TTS instruction payload when the remote engine is unavailable.
func (s *Service) Synthesize(ctx context.Context, text, voice string) *Synthesis {
	if voice == "" {
		voice = s.cfg.TTSVoice
	}

	if s.Enabled() {
		data, err := s.synthesizeRemote(ctx, text, voice)
		if err == nil {
			id := FileID(text, voice)
			path := s.filePath(id)
			if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
				log.Printf("[audio] failed to cache synthesis: %v", writeErr)
			}
			return &Synthesis{
				AudioURL: "/api/audio/file/" + id,
				FileSize: int64(len(data)),
				Voice:    voice,
			}
		}
		log.Printf("[audio] remote synthesis failed: %v", err)
	}

	return &Synthesis{BrowserTTS: true, Text: text, Voice: voice}
}

// SynthesizeBuffer renders text to raw audio bytes for streaming callers.
// It returns nil when synthesis is unavailable.
func (s *Service) SynthesizeBuffer(ctx context.Context, text, voice string) []byte {
	if !s.Enabled() {
		return nil
	}
	if voice == "" {
		voice = s.cfg.TTSVoice
	}

	data, err := s.synthesizeRemote(ctx, text, voice)
	if err != nil {
		log.Printf("[audio] streaming synthesis failed: %v", err)
		return nil
	}
	return data
}

func (s *Service) synthesizeRemote(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"model": s.cfg.TTSModel,
		"voice": voice,
		"input": text,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.cfg.BaseURL, "/")+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// FilePath resolves a cached audio file by ID.
func (s *Service) FilePath(fileID string) (string, bool) {
	path := s.filePath(fileID)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// DeleteFile removes a cached audio file.
func (s *Service) DeleteFile(fileID string) bool {
	path := s.filePath(fileID)
	if err := os.Remove(path); err != nil {
		return false
	}
	return true
}

func (s *Service) filePath(fileID string) string {
	return filepath.Join(s.cfg.UploadDir, fileID+".mp3")
}

// Voice describes one selectable synthesis voice.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Voices lists the selectable voices, remote first then browser fallbacks.
func (s *Service) Voices() []Voice {
	return []Voice{
		{ID: "alloy", Name: "Alloy", Provider: "remote"},
		{ID: "echo", Name: "Echo", Provider: "remote"},
		{ID: "fable", Name: "Fable", Provider: "remote"},
		{ID: "onyx", Name: "Onyx", Provider: "remote"},
		{ID: "nova", Name: "Nova", Provider: "remote"},
		{ID: "shimmer", Name: "Shimmer", Provider: "remote"},
		{ID: "browser-female", Name: "Browser Female", Provider: "browser"},
		{ID: "browser-male", Name: "Browser Male", Provider: "browser"},
	}
}

// FileID derives the deterministic cache key for a synthesis request.
func FileID(text, voice string) string {
	sum := md5.Sum([]byte(text + "_" + voice))
	return fmt.Sprintf("%x", sum)
}
