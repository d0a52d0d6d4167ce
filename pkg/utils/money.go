package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// FormatPrice renders a decimal amount for display, e.g. 10.5 -> "$10.50".
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// GenerateTxRef builds a unique transaction reference for a payment attempt.
// Format: tx_<unix-millis>_<random>
func GenerateTxRef() string {
	return fmt.Sprintf("tx_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
