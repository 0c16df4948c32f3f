// internal/app/features/shared/listpage/seed.go
package listpage

import (
	"fmt"
	"math/rand/v2"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/google/uuid"
)

// Records wraps generated fields as records with fresh ids, numbered in
// order.
func Records[F any](fields []F) []collection.Record[F] {
	out := make([]collection.Record[F], len(fields))
	for i, f := range fields {
		out[i] = collection.Record[F]{ID: uuid.NewString(), Seq: int64(i + 1), Fields: f}
	}
	return out
}

// Pick returns a random element of values.
func Pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// Avatar returns the placeholder avatar for n.
func Avatar(n int) string {
	return fmt.Sprintf("https://i.pravatar.cc/150?u=%d", n)
}
