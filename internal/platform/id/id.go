package id

import (
	"strings"

	"github.com/google/uuid"
)

// TempPrefix marks entities created locally and not yet confirmed by the
// record service. Server ids never carry it.
const TempPrefix = "temp-"

// Generator creates temporary identifiers for optimistic placeholders.
type Generator interface {
	New() string
}

type TempUUID struct{}

func (TempUUID) New() string {
	return TempPrefix + uuid.NewString()
}

func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}
