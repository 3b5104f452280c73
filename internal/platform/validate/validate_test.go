package validate_test

import (
	"errors"
	"testing"

	apperrors "nebibs/internal/platform/errors"
	"nebibs/internal/platform/validate"
)

type input struct {
	Title string   `validate:"nonblank"`
	Date  string   `validate:"isodate"`
	Hours *float64 `validate:"omitnil,gte=0"`
}

func TestStruct(t *testing.T) {
	t.Parallel()
	if err := validate.Struct(input{Title: "ok", Date: "2024-06-10"}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	negative := -1.0
	err := validate.Struct(input{Title: "  ", Date: "2024-6-1", Hours: &negative})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three field errors, got %v", err)
	}
	if verr.Fields[0].Rule != "nonblank" || verr.Fields[1].Rule != "isodate" {
		t.Fatalf("custom rules not applied: %+v", verr.Fields)
	}
	if verr.Fields[2].Rule != "gte=0" {
		t.Fatalf("unexpected rule %q", verr.Fields[2].Rule)
	}
}
