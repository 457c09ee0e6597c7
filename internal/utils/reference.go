package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// Reference prefixes for the compliance collections
const (
	ReportPrefix   = "rpt"
	FilingPrefix   = "fil"
	AlertPrefix    = "alt"
	SchedulePrefix = "sch"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReference generates a human-readable reference like
// rpt_20260115_K3F9X2QA. Uniqueness is enforced by the database; the
// random suffix keeps collisions out of normal operation.
func GenerateReference(prefix string) string {
	result := make([]byte, 8)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}

	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s_%s", prefix, timestamp, string(result))
}
