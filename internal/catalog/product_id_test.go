package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var productIDPattern = regexp.MustCompile(`^PROD-\d{13}-\d{1,3}$`)

func TestGenerateProductIDFormat(t *testing.T) {
	id := GenerateProductID()
	if !productIDPattern.MatchString(id) {
		t.Fatalf("unexpected product id format: %s", id)
	}

	parts := strings.Split(id, "-")
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		t.Fatalf("timestamp part not numeric: %v", err)
	}
	now := time.Now().UnixMilli()
	if millis > now || millis < now-time.Minute.Milliseconds() {
		t.Fatalf("timestamp part out of range: %d", millis)
	}

	suffix, err := strconv.Atoi(parts[2])
	if err != nil {
		t.Fatalf("random part not numeric: %v", err)
	}
	if suffix < 0 || suffix > 999 {
		t.Fatalf("random part out of range: %d", suffix)
	}
}
