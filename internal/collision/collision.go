// Package collision implements the incrementally-updated spatial index used
// to answer "which sentry sits at this point?" (entity.World.SentryAt).
// Colliders are keyed by entity-world slot index, so a query result maps
// straight back to the owning entity without a separate lookup table.
//
// The index is a uniform 3D grid rather than a BVH: cells are keyed by grid
// coordinate and hold the slot indices of the colliders whose origin falls
// in them, since slots here are sparse and long-lived rather than a dense
// per-frame array.
package collision

import (
	"math"

	"github.com/leighmacdonald/tf2stats/internal/entity"
)

// cellSize is chosen above the largest collider dimension (the 83-unit
// height of the building cuboid) so a query rarely spans more than a handful
// of cells.
const cellSize = 128.0

type collider struct {
	shape  entity.Shape
	origin entity.Vec3
}

// Index is the spatial index wired into entity.World via
// entity.World.SetCollisionIndex.
type Index struct {
	cells     map[cellKey][]int
	colliders map[int]collider
}

type cellKey struct{ x, y, z int }

// New returns an empty collision index.
func New() *Index {
	return &Index{
		cells:     make(map[cellKey][]int),
		colliders: make(map[int]collider),
	}
}

func cellOf(p entity.Vec3) cellKey {
	return cellKey{
		x: int(math.Floor(p.X / cellSize)),
		y: int(math.Floor(p.Y / cellSize)),
		z: int(math.Floor(p.Z / cellSize)),
	}
}

// Upsert inserts or moves the collider for slot.
func (idx *Index) Upsert(slot int, shape entity.Shape, origin entity.Vec3) {
	if old, ok := idx.colliders[slot]; ok {
		idx.unlink(slot, old.origin)
	}
	idx.colliders[slot] = collider{shape: shape, origin: origin}
	key := cellOf(origin)
	idx.cells[key] = append(idx.cells[key], slot)
}

// Remove deletes the collider for slot, if present.
func (idx *Index) Remove(slot int) {
	c, ok := idx.colliders[slot]
	if !ok {
		return
	}
	idx.unlink(slot, c.origin)
	delete(idx.colliders, slot)
}

func (idx *Index) unlink(slot int, origin entity.Vec3) {
	key := cellOf(origin)
	bucket := idx.cells[key]
	for i, s := range bucket {
		if s == slot {
			bucket[i] = bucket[len(bucket)-1]
			idx.cells[key] = bucket[:len(bucket)-1]
			break
		}
	}
}

// PointQuery returns the first collider whose shape contains point,
// scanning only the cell point falls in plus its 26 neighbors. Cells are
// visited in a fixed dx/dy/dz order and each cell's slots in bucket order;
// the first containing collider found is returned and any other overlapping
// collider is ignored.
func (idx *Index) PointQuery(point entity.Vec3) (slot int, ok bool) {
	center := cellOf(point)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				key := cellKey{center.x + dx, center.y + dy, center.z + dz}
				for _, s := range idx.cells[key] {
					c := idx.colliders[s]
					if containsPoint(c, point) {
						return s, true
					}
				}
			}
		}
	}
	return 0, false
}

func containsPoint(c collider, p entity.Vec3) bool {
	d := p.Sub(c.origin)
	return math.Abs(d.X) <= c.shape.HalfX && math.Abs(d.Y) <= c.shape.HalfY && math.Abs(d.Z) <= c.shape.HalfZ
}

// AABB is an axis-aligned box in world coordinates. Nothing outside this
// package's tests uses it; the resolver's explosion-vs-player overlap checks
// use their own boxes (internal/resolver/hittest.go).
type AABB struct {
	Min, Max entity.Vec3
}

// BoxFromCenter builds an AABB centered on center with the given half-extents.
func BoxFromCenter(center entity.Vec3, halfX, halfY, halfZ float64) AABB {
	return AABB{
		Min: entity.Vec3{X: center.X - halfX, Y: center.Y - halfY, Z: center.Z - halfZ},
		Max: entity.Vec3{X: center.X + halfX, Y: center.Y + halfY, Z: center.Z + halfZ},
	}
}

// Overlaps reports whether a and b intersect.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Len returns the number of colliders currently tracked, for tests.
func (idx *Index) Len() int { return len(idx.colliders) }
