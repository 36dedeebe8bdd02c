// Package geometry describes vertex data independent of any device buffers.
package geometry

import (
	"errors"
	"fmt"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/device"
)

var (
	ErrNoPositions    = errors.New("geometry has no positions")
	ErrLengthMismatch = errors.New("geometry attribute length does not match position count")
	ErrIndexRange     = errors.New("geometry index out of range")
)

// Geometry is a set of vertices and optional indices. Normals and Texcoords are
// either empty or parallel to Positions.
type Geometry struct {
	Positions []gglm.Vec3
	Normals   []gglm.Vec3
	Texcoords []gglm.Vec2
	Indices   []uint32
	Topology  device.Topology
}

func (g *Geometry) Validate() error {

	if len(g.Positions) == 0 {
		return ErrNoPositions
	}

	if len(g.Normals) != 0 && len(g.Normals) != len(g.Positions) {
		return fmt.Errorf("%w: %d normals for %d positions", ErrLengthMismatch, len(g.Normals), len(g.Positions))
	}

	if len(g.Texcoords) != 0 && len(g.Texcoords) != len(g.Positions) {
		return fmt.Errorf("%w: %d texcoords for %d positions", ErrLengthMismatch, len(g.Texcoords), len(g.Positions))
	}

	for i, idx := range g.Indices {
		if int(idx) >= len(g.Positions) {
			return fmt.Errorf("%w: index %d at %d, vertex count is %d", ErrIndexRange, idx, i, len(g.Positions))
		}
	}

	return nil
}

func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

func (g *Geometry) HasNormals() bool {
	return len(g.Normals) > 0
}

func (g *Geometry) HasTexcoords() bool {
	return len(g.Texcoords) > 0
}

func (g *Geometry) Indexed() bool {
	return len(g.Indices) > 0
}

// DrawCount is the number of elements a draw of this geometry covers
func (g *Geometry) DrawCount() int32 {

	if g.Indexed() {
		return int32(len(g.Indices))
	}

	return int32(len(g.Positions))
}

// Clone returns a deep copy
func (g *Geometry) Clone() Geometry {
	return Geometry{
		Positions: append([]gglm.Vec3(nil), g.Positions...),
		Normals:   append([]gglm.Vec3(nil), g.Normals...),
		Texcoords: append([]gglm.Vec2(nil), g.Texcoords...),
		Indices:   append([]uint32(nil), g.Indices...),
		Topology:  g.Topology,
	}
}
