package utils

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageFileName builds the artifact name for a persisted image. The
// prefix/video/scene/talk fields associate the file with the video scene it
// was generated for; the short uuid suffix keeps repeated generations for
// the same scene from colliding.
func ImageFileName(prefix, videoID string, sceneNumber, talkNumber int) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%s-scene%d-talk%d-%s.png", prefix, videoID, sceneNumber, talkNumber, suffix)
}

// CleanBase64Data removes a potential data URI prefix and trims whitespace.
func CleanBase64Data(data string) string {
	data = strings.TrimSpace(data)
	if commaIndex := strings.Index(data, ","); commaIndex != -1 && strings.HasPrefix(data, "data:") {
		slog.Debug("Found and removing data URI prefix.")
		data = data[commaIndex+1:]
	}
	return data
}

// SaveImage decodes base64 image data and writes it to outputPath under the
// given filename, creating the directory if needed. Returns the full path.
func SaveImage(outputPath, filename, imageBase64 string) (string, error) {
	cleaned := CleanBase64Data(imageBase64)
	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	fullPath := filepath.Join(outputPath, filename)
	if err := os.WriteFile(fullPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to save generated image to disk: %w", err)
	}

	slog.Info("Saved generated image", "path", fullPath, "size_bytes", len(raw))
	return fullPath, nil
}
