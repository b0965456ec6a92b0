package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
	"golang.org/x/exp/constraints"
)

func FormatThousand[T constraints.Integer](n T) string {
	in := strconv.FormatInt(int64(n), 10)
	numOfDigits := len(in)
	if n < 0 {
		numOfDigits--
	}
	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}
		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}

// EmbedGUID appends a correlation id so users can quote it in bug reports.
func EmbedGUID(guid string) string {
	var sb strings.Builder
	sb.WriteString(" (")
	sb.WriteString(guid)
	sb.WriteString(")")
	return sb.String()
}

func HumanizeDuration(d *duration.Duration) string {
	var sb strings.Builder

	if d.Years > 0 {
		sb.WriteString(strconv.Itoa(int(d.Years)))
		sb.WriteString("y")
	}

	if d.Months > 0 {
		sb.WriteString(strconv.Itoa(int(d.Months)))
		sb.WriteString("M")
	}

	if d.Weeks > 0 {
		sb.WriteString(strconv.Itoa(int(d.Weeks)))
		sb.WriteString("w")
	}

	if d.Days > 0 {
		sb.WriteString(strconv.Itoa(int(d.Days)))
		sb.WriteString("d")
	}

	if d.Hours > 0 {
		sb.WriteString(strconv.Itoa(int(d.Hours)))
		sb.WriteString("h")
	}

	if d.Minutes > 0 {
		sb.WriteString(strconv.Itoa(int(d.Minutes)))
		sb.WriteString("m")
	}

	if d.Seconds > 0 {
		sb.WriteString(strconv.Itoa(int(d.Seconds)))
		sb.WriteString("s")
	}

	return sb.String()
}

// TimeAgo renders how long ago t was, e.g. "just now" or "5m ago".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Truncate(time.Second)
	if d < time.Minute {
		return "just now"
	}
	if d >= 24*time.Hour {
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return HumanizeDuration(duration.FromTimeDuration(d.Truncate(time.Minute))) + " ago"
}
