package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCertificateNumber generates a unique certificate number
func GenerateCertificateNumber() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("CERT-%s-%d", short, time.Now().Unix())
}

// GenerateObjectName builds a unique stored-object name preserving the extension
func GenerateObjectName(filename string) string {
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = filename[idx:]
	}
	return uuid.NewString() + ext
}
