package systems

import (
	"github.com/wyixiang/ikerEcsProject/components"
	"github.com/wyixiang/ikerEcsProject/store"
)

// SpawnerParams carries per-tick inputs for food spawning.
type SpawnerParams struct {
	Seed  uint64
	Tick  uint64
	Clock float64 // simulation time, seconds
}

// SpawnFood fires every spawner whose NextSpawnTime has been reached. Each
// firing spawner enqueues one instantiation at a random point on the circle
// of its radius and schedules the next firing at Clock + Interval.
// Returns the number of instantiations enqueued.
func SpawnFood(entries []store.SpawnerEntry, p SpawnerParams, buf *store.CommandBuffer) int {
	spawned := 0
	for i := range entries {
		en := &entries[i]
		sp := en.Spawner
		if p.Clock < sp.NextSpawnTime {
			continue
		}
		id := en.Entity.ID()
		dx, dy := Derive(p.Seed, id, Salt(PhaseFoodSpawn, p.Tick)).UnitVector()
		buf.Instantiate(id, sp.Template, store.Overrides{
			Position: components.Position{X: en.Pos.X + dx*sp.Radius, Y: en.Pos.Y + dy*sp.Radius},
		})
		sp.NextSpawnTime = p.Clock + float64(sp.Interval)
		buf.SetComponent(id, en.Entity, sp)
		spawned++
	}
	return spawned
}

// SeedParams describes the initial population.
type SeedParams struct {
	Seed uint64

	PreyCount     int
	AreaCenter    components.Position
	AreaSize      float32 // side of the square prey are scattered over
	PredatorCount int
	PredatorAt    components.Position
	SpawnerAt     []components.Position
}

// SeedActors enqueues the one-time initial population: prey scattered
// uniformly over the seeding square with random headings, predators at their
// spawn point, and one food spawner per configured position.
func SeedActors(p SeedParams, buf *store.CommandBuffer) {
	half := p.AreaSize / 2
	for i := 0; i < p.PreyCount; i++ {
		rng := Derive(p.Seed, uint32(i), Salt(PhaseSeed, 0))
		pos := components.Position{
			X: p.AreaCenter.X + rng.Range(-half, half),
			Y: p.AreaCenter.Y + rng.Range(-half, half),
		}
		buf.Instantiate(uint32(i), store.TemplatePrey, store.Overrides{
			Position: pos,
			Heading:  randomHeading(rng),
		})
	}

	for i := 0; i < p.PredatorCount; i++ {
		origin := uint32(p.PreyCount + i)
		buf.Instantiate(origin, store.TemplatePredator, store.Overrides{
			Position: p.PredatorAt,
			Heading:  randomHeading(Derive(p.Seed, origin, Salt(PhaseSeed, 0))),
		})
	}

	for i, at := range p.SpawnerAt {
		buf.Instantiate(uint32(p.PreyCount+p.PredatorCount+i), store.TemplateFoodSpawner, store.Overrides{
			Position: at,
		})
	}
}

func randomHeading(rng *Stream) *store.Heading {
	x, y := rng.UnitVector()
	return &store.Heading{X: x, Y: y}
}
