package cart

import (
	"errors"
	"fmt"
)

var (
	ErrNotReady           = errors.New("cart store not ready")
	ErrInvalidQuantity    = errors.New("cart quantity must be between 1 and the line limit")
	ErrInvalidProduct     = errors.New("invalid cart product id")
	ErrNoIdentity         = errors.New("cart identity missing")
	ErrBackendUnavailable = errors.New("cart backend unavailable")
	ErrWriteFailed        = errors.New("cart write failed")
	ErrSlotQuotaExceeded  = errors.New("cart slot quota exceeded")
)

// writeFailure 包装写穿失败，调用方可通过 errors.Is(err, ErrWriteFailed) 判断
func writeFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrWriteFailed, op, err)
}
