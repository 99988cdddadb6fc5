package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Die is the unified exit strategy for gesichtool.
// It prints a formatted error box and terminates the process.
func Die(context string, err error) {
	fmt.Fprintf(os.Stderr, "\n---------------------------------------------------------\n")
	fmt.Fprintf(os.Stderr, "🚨 GESICHTOOL ERROR: %s\n", context)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DETAILS: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "---------------------------------------------------------\n")
	os.Exit(1)
}

// ImageID creates a deterministic hash for a source image
// based on its path, size, and modification time.
func ImageID(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	input := fmt.Sprintf("%s-%d-%d", path, info.Size(), info.ModTime().UnixNano())
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:]), nil
}

// OutputName builds the thumbnail filename for the nth face of an input
// image: "portrait.png" -> "portrait_face000.jpg". The input stem keeps
// crops from different images from colliding in a shared output
// directory.
func OutputName(inputPath string, faceIdx int) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_face%03d.jpg", stem, faceIdx)
}
