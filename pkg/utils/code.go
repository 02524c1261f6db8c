package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	multiHyphen  = regexp.MustCompile("-+")
)

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = multiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ShortCode returns a short uppercase reference code. Collisions are
// possible but the keyspace is adequate for a single-till workload.
func ShortCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

// GenerateInvoiceNo generates a unique invoice number
func GenerateInvoiceNo() string {
	return "INV-" + ShortCode()
}

// GeneratePurchaseNo generates a unique purchase reference
func GeneratePurchaseNo() string {
	return "PUR-" + ShortCode()
}

// GenerateReturnNo generates a unique sale-return reference
func GenerateReturnNo() string {
	return "RET-" + ShortCode()
}

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return "PROD-" + ShortCode()
}

// GenerateBatchNo generates a batch number for purchases that do not supply one
func GenerateBatchNo() string {
	return "BATCH-" + ShortCode()
}
