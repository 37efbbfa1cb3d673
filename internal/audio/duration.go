package audio

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders an elapsed recording time as the mm:ss label stored
// on a note. The label reflects the recording timer, not the decoded media
// duration.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseDurationLabel converts an mm:ss label back into a duration. Labels
// with minute values above 99 are still accepted.
func ParseDurationLabel(label string) (time.Duration, error) {
	parts := strings.Split(label, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid duration label %q: expected mm:ss", label)
	}

	var minutes, seconds int
	if _, err := fmt.Sscanf(label, "%d:%d", &minutes, &seconds); err != nil {
		return 0, fmt.Errorf("invalid duration label %q: %w", label, err)
	}

	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid duration label %q: out of range", label)
	}

	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}
