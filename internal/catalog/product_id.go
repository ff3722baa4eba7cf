package catalog

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateProductID builds the human-readable product id, e.g.
// PROD-1717171717171-42.
func GenerateProductID() string {
	return fmt.Sprintf("PROD-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}
