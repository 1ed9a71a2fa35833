package id

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewSessionID returns a random session identifier.
func NewSessionID() uuid.UUID {
	return uuid.New()
}

// FormatReceiptRef returns a receipt reference like "TXN-20251019-0001".
func FormatReceiptRef(day time.Time, seq int) string {
	return fmt.Sprintf("TXN-%s-%04d", day.Format("20060102"), seq)
}
