package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

const TrackingPrefix = "STDR"

// NewTrackingID returns STDR-YYYYMMDD-XXXXXX, where the date is taken in UTC
// and the suffix is three random bytes in upper-case hex. A nil source falls
// back to crypto/rand.
func NewTrackingID(now time.Time, source io.Reader) (string, error) {
	if source == nil {
		source = rand.Reader
	}
	suffix := make([]byte, 3)
	if _, err := io.ReadFull(source, suffix); err != nil {
		return "", fmt.Errorf("cannot read tracking id entropy: %w", err)
	}
	return FormatTrackingID(now, suffix), nil
}

func FormatTrackingID(now time.Time, suffix []byte) string {
	return fmt.Sprintf("%s-%s-%s", TrackingPrefix, now.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(suffix)))
}
