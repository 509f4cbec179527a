package orders

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// CodeGenerator produces business order codes of the form
// PREFIX-YYYYMMDD-NNN. The date is the UTC calendar date and NNN a random
// zero-padded suffix, so codes can collide and callers must retry.
type CodeGenerator struct {
	prefix string
	intn   func(n int) int
}

func NewCodeGenerator(prefix string) *CodeGenerator {
	return &CodeGenerator{prefix: prefix, intn: rand.IntN}
}

func (g *CodeGenerator) Generate(t time.Time) string {
	return fmt.Sprintf("%s-%s-%03d", g.prefix, t.UTC().Format("20060102"), g.intn(1000))
}
