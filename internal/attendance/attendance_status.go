package attendance

import (
	"strings"

	attendanceerrors "github.com/mujabaralno/qr-absence/internal/attendance/errors"
)

// Status is the stored attendance classification. Storage is the canonical
// English form; the Indonesian labels the mobile clients send are accepted as
// aliases at the boundary and translated before anything touches the database.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusLate    Status = "LATE"
	StatusAbsent  Status = "ABSENT"
)

var statusAliases = map[string]Status{
	"present":   StatusPresent,
	"hadir":     StatusPresent,
	"late":      StatusLate,
	"terlambat": StatusLate,
	"absent":    StatusAbsent,
	"mangkir":   StatusAbsent,
}

// ParseStatus normalizes a client-supplied status. Unknown values are
// rejected rather than defaulted; a silent default here would corrupt the
// roster.
func ParseStatus(raw string) (Status, error) {
	if s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s, nil
	}
	return "", attendanceerrors.ErrInvalidStatus
}
