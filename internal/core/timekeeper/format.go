package timekeeper

import "fmt"

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
)

// Split decomposes a number of seconds into hours, minutes and seconds.
func Split(total int) (hours, minutes, seconds int) {
	if total < 0 {
		total = 0
	}
	hours = total / secondsPerHour
	minutes = (total % secondsPerHour) / secondsPerMinute
	seconds = total % secondsPerMinute
	return hours, minutes, seconds
}

// FormatSeconds renders a duration the way the overlay label shows it. Every
// field is padded to two digits and leading empty units are omitted.
func FormatSeconds(total int) string {
	hours, minutes, seconds := Split(total)
	switch {
	case hours > 0:
		return fmt.Sprintf("%02d hour(s) %02d minute(s) %02d second(s)", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%02d minute(s) %02d second(s)", minutes, seconds)
	default:
		return fmt.Sprintf("%02d second(s)", seconds)
	}
}

// FormatCompact renders hh:mm:ss, or mm:ss below one hour.
func FormatCompact(total int) string {
	hours, minutes, seconds := Split(total)
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// DescribeDuration renders an unpadded duration for acknowledgements,
// e.g. "1 hours 5 minutes 9 seconds".
func DescribeDuration(total int) string {
	hours, minutes, seconds := Split(total)
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hours %d minutes %d seconds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%d minutes %d seconds", minutes, seconds)
	default:
		return fmt.Sprintf("%d seconds", seconds)
	}
}
