// Package metadata stamps generated reports with a provenance block and
// verifies that the report body has not been edited since.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart opens the provenance block.
	TagStart = "<!-- POLICYSCOPE_START"
	// TagEnd closes the provenance block.
	TagEnd = "POLICYSCOPE_END -->"
)

// Verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes how a report was produced.
type Metadata struct {
	GeneratedAt   time.Time
	Policies      int
	FailedSources []string
	Hash          string
}

// metadataRegex matches the whole block including tags.
var metadataRegex = regexp.MustCompile(`(?s)\n*<!--\s*POLICYSCOPE_START\s*\n(.*?)\n\s*POLICYSCOPE_END\s*-->`)

// Extract splits content into its metadata and the body that is hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	clean := strings.TrimRight(metadataRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, clean
	}

	meta := &Metadata{}

	for line := range strings.SplitSeq(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "GENERATED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.GeneratedAt = t
			}
		case "POLICIES":
			meta.Policies, _ = strconv.Atoi(val)
		case "FAILED_SOURCES":
			for name := range strings.SplitSeq(val, ",") {
				if name = strings.TrimSpace(name); name != "" {
					meta.FailedSources = append(meta.FailedSources, name)
				}
			}
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, clean
}

// CalculateHash returns the SHA-256 of content with any block removed.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign replaces any existing block with one describing meta and the hash
// of the body. A zero GeneratedAt is set to now.
func Sign(content string, meta Metadata) string {
	_, clean := Extract(content)

	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	var sb strings.Builder

	sb.WriteString(clean)
	sb.WriteString("\n\n")
	sb.WriteString(TagStart)
	fmt.Fprintf(&sb, "\nGENERATED_AT: %s", meta.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "\nPOLICIES: %d", meta.Policies)

	if len(meta.FailedSources) > 0 {
		fmt.Fprintf(&sb, "\nFAILED_SOURCES: %s", strings.Join(meta.FailedSources, ", "))
	}

	fmt.Fprintf(&sb, "\nHASH: %s\n", CalculateHash(clean))
	sb.WriteString(TagEnd)
	sb.WriteString("\n")

	return sb.String()
}

// Verify checks the body against the hash recorded in its block.
func Verify(content string) (*Metadata, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return nil, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return meta, ErrNoHashFound
	}

	if calculated := CalculateHash(clean); calculated != meta.Hash {
		return meta, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return meta, nil
}
