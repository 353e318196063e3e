package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateStudyName generates a unique name for a study created without one.
func GenerateStudyName() string {
	return fmt.Sprintf("no-name-%s", uuid.NewString())
}

// GenerateWorkerID generates a unique identity for a coordinator worker.
func GenerateWorkerID(rank int) string {
	return fmt.Sprintf("worker-%d-%s", rank, uuid.NewString()[:8])
}
