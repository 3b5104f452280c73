package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

var null = []byte("null")

// Text decodes a JSON string, number or boolean into its string form. null
// and absent fields decode to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("remote: expected scalar, got %s", data)
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Number decodes a JSON number or a numeric string (decimal columns are often
// serialized as strings). null, absent and empty strings decode to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, null) {
		*n = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*n = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("remote: %q is not a number", raw)
	}
	*n = Number(v)
	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}

// Int rounds to the nearest integer.
func (n Number) Int() int {
	if n < 0 {
		return int(n - 0.5)
	}
	return int(n + 0.5)
}

// ParseTimestamp accepts the ISO 8601 shapes the record service emits, with or
// without zone offset and fractional seconds. Unparseable input yields the
// zero time.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	dt, err := strfmt.ParseDateTime(raw)
	if err != nil {
		return time.Time{}
	}
	return time.Time(dt)
}

// CalendarDate truncates an ISO date or date-time to its YYYY-MM-DD prefix.
func CalendarDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 10 {
		return raw[:10]
	}
	return raw
}
