package particle

import (
	"math"
	"math/rand/v2"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/governor"
)

// Factory creates particle batches. It is not safe for concurrent use because
// it shares one random source between calls.
type Factory struct {
	catalog *effect.Catalog
	base    map[governor.Tier]int
	rng     *rand.Rand
}

func DefaultBaseCounts() map[governor.Tier]int {
	return map[governor.Tier]int{
		governor.Low:    BaseCountLow,
		governor.Medium: BaseCountMedium,
		governor.High:   BaseCountHigh,
	}
}

// NewFactory returns a factory drawing from rng. Pass a seeded source for
// reproducible batches.
func NewFactory(catalog *effect.Catalog, rng *rand.Rand) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factory{
		catalog: catalog,
		base:    DefaultBaseCounts(),
		rng:     rng,
	}
}

// WithBaseCounts replaces the per-tier base counts. Non-positive values are ignored.
func (f *Factory) WithBaseCounts(counts map[governor.Tier]int) *Factory {
	for tier, n := range counts {
		if n > 0 {
			f.base[tier] = n
		}
	}
	return f
}

func (f *Factory) Catalog() *effect.Catalog {
	return f.catalog
}

func (f *Factory) Rand() *rand.Rand {
	return f.rng
}

// Count is floor(base(tier) × density(e)).
func (f *Factory) Count(e effect.Type, tier governor.Tier) int {
	base, ok := f.base[tier]
	if !ok {
		base = f.base[governor.Low]
	}
	n := math.Floor(float64(base) * f.catalog.Settings(e).DensityMultiplier)
	if n < 0 {
		return 0
	}
	return int(n)
}

// CreateBatch returns a fresh batch for e at tier with positions inside bounds.
func (f *Factory) CreateBatch(e effect.Type, tier governor.Tier, bounds Bounds) []Particle {
	glyphs := f.catalog.Glyphs(e)
	count := f.Count(e, tier)

	batch := make([]Particle, count)
	for i := range batch {
		pos := bounds.randomPosition(f.rng)
		batch[i] = Particle{
			Glyph:    glyphs[f.rng.IntN(len(glyphs))],
			Origin:   pos,
			Position: pos,
			Phase:    f.rng.Float64() * 2 * math.Pi,
			Effect:   e,
		}
	}
	return batch
}
