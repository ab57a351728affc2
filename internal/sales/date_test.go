package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestNormalizeDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	native := time.Date(2024, time.March, 5, 2, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"date only text", "2024-03-05", want},
		{"rfc3339 text", "2024-03-05T00:00:00Z", want},
		{"rfc3339 with millis", "2024-03-05T00:00:00.000Z", want},
		{"text without zone", "2024-03-05T00:00:00", want},
		{"text with space", "2024-03-05 00:00:00", want},
		{"padded text", "  2024-03-05 ", want},
		{"native time in another zone", native, want},
		{"pointer to time", &want, want},
		{"bson datetime", bson.NewDateTimeFromTime(want), want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	var nilTime *time.Time

	for _, in := range []any{"05/03/2024", "", 42, nil, nilTime} {
		_, err := NormalizeDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %v", in)
	}
}
