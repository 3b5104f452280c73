package domain

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one block of volunteer service. Date is a YYYY-MM-DD calendar
// date.
type Entry struct {
	ID          string    `cbor:"id"`
	Date        string    `cbor:"date"`
	Description string    `cbor:"description"`
	Hours       float64   `cbor:"hours"`
	Reflection  string    `cbor:"reflection"`
	CreatedAt   time.Time `cbor:"created_at"`
	UpdatedAt   time.Time `cbor:"updated_at"`
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("entry id is required")
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("entry description is required")
	}
	if e.Hours < 0 {
		return fmt.Errorf("entry hours must not be negative")
	}
	return nil
}

type Patch struct {
	Date        *string
	Description *string
	Hours       *float64
	Reflection  *string
}

func (p Patch) Empty() bool {
	return p.Date == nil && p.Description == nil && p.Hours == nil && p.Reflection == nil
}
