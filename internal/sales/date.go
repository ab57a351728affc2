package sales

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrInvalidDate is returned when a stored date cannot be turned into a timestamp.
var ErrInvalidDate = errors.New("invalid sale date")

// DayLayout is the format used to group sales by calendar day.
const DayLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	DayLayout,
}

// NormalizeDate converts a stored date (native or text) into a UTC timestamp.
func NormalizeDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), nil
	case *time.Time:
		if d == nil {
			return time.Time{}, fmt.Errorf("%w: missing value", ErrInvalidDate)
		}
		return d.UTC(), nil
	case bson.DateTime:
		return d.Time().UTC(), nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, d)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, v)
	}
}
