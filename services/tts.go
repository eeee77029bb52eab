package services

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// ttsFormatID mirrors the Azure output format constant; part of the
// cache key so a format change invalidates old files.
const ttsFormatID = "16k-32kbit-mono-mp3"

// ttsCacheVersion is bumped to invalidate the whole cache.
const ttsCacheVersion = "v1"

const azureOutputFormat = "audio-16khz-32kbitrate-mono-mp3"

// TTSService renders text to mp3 via the Azure Speech REST API and
// caches results on disk keyed by content, voice and format.
type TTSService struct {
	Key          string
	Region       string
	DefaultVoice string
	OutputDir    string
}

func NewTTSService(key, region, defaultVoice, outputDir string) *TTSService {
	return &TTSService{
		Key:          key,
		Region:       region,
		DefaultVoice: defaultVoice,
		OutputDir:    outputDir,
	}
}

// Configured reports whether Azure credentials are present.
func (s *TTSService) Configured() bool {
	return s.Key != "" && s.Region != ""
}

// CacheFileName derives the deterministic mp3 file name for a request.
// messageID is preferred in the hash (stable per message); the raw text
// is the fallback.
func (s *TTSService) CacheFileName(text, voice, messageID string) string {
	base := "txt:" + text
	if messageID != "" {
		base = "mid:" + messageID
	}
	keyStr := fmt.Sprintf("%s||%s||%s||%s", base, s.voiceName(voice), ttsFormatID, ttsCacheVersion)
	sum := sha1.Sum([]byte(keyStr))
	return hex.EncodeToString(sum[:]) + ".mp3"
}

func (s *TTSService) voiceName(voice string) string {
	if voice != "" {
		return voice
	}
	return s.DefaultVoice
}

func (s *TTSService) endpoint() string {
	return fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", s.Region)
}

// Synthesize returns the cached mp3 file name for the text, generating
// it through Azure on a cache miss.
func (s *TTSService) Synthesize(text, voice, messageID string) (string, error) {
	fileName := s.CacheFileName(text, voice, messageID)
	filePath := filepath.Join(s.OutputDir, fileName)

	if _, err := os.Stat(filePath); err == nil {
		return fileName, nil
	}

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return "", err
	}

	ssml := buildSSML(s.voiceName(voice), text)
	req, err := http.NewRequest("POST", s.endpoint(), bytes.NewBufferString(ssml))
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.Key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("azure tts returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filePath, audio, 0o644); err != nil {
		return "", err
	}
	return fileName, nil
}

func buildSSML(voice, text string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(text))

	return fmt.Sprintf(
		"<speak version='1.0' xml:lang='en-US'><voice name='%s'>%s</voice></speak>",
		voice, escaped.String())
}
