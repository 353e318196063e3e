package utils

import (
	"strings"
	"testing"
)

func TestGenerateStudyName(t *testing.T) {
	a := GenerateStudyName()
	b := GenerateStudyName()
	if !strings.HasPrefix(a, "no-name-") {
		t.Errorf("name %q missing no-name- prefix", a)
	}
	if a == b {
		t.Error("two generated study names collided")
	}
}

func TestGenerateWorkerID(t *testing.T) {
	id := GenerateWorkerID(3)
	if !strings.HasPrefix(id, "worker-3-") {
		t.Errorf("id %q missing rank prefix", id)
	}
	if id == GenerateWorkerID(3) {
		t.Error("two worker ids for the same rank collided")
	}
}
