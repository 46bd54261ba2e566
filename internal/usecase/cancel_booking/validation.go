package cancel_booking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const canonicalUUIDLen = 36

// validateRequest проверяет входные данные
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	// Postgres принимает только канонический вид xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
	if len(req.SlotID) != canonicalUUIDLen {
		return fmt.Errorf("%w: slot id %q is not a canonical UUID", ErrInvalidInput, req.SlotID)
	}
	if _, err := uuid.Parse(req.SlotID); err != nil {
		return fmt.Errorf("%w: slot id %q is not a valid UUID", ErrInvalidInput, req.SlotID)
	}
	return nil
}
