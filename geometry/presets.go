package geometry

import (
	"math"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/device"
)

func v3(x, y, z float32) gglm.Vec3 {
	return gglm.NewVec3(x, y, z)
}

func v2(x, y float32) gglm.Vec2 {
	return gglm.NewVec2(x, y)
}

func repeat3(v gglm.Vec3, n int) []gglm.Vec3 {

	out := make([]gglm.Vec3, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// ScreenQuad covers clip space [-1, 1] on x and y, facing +z
func ScreenQuad() Geometry {
	return Geometry{
		Topology: device.Topology_Triangles,
		Positions: []gglm.Vec3{
			v3(-1, 1, 0), v3(-1, -1, 0), v3(1, -1, 0),
			v3(-1, 1, 0), v3(1, -1, 0), v3(1, 1, 0),
		},
		Normals: repeat3(v3(0, 0, 1), 6),
		Texcoords: []gglm.Vec2{
			v2(0, 1), v2(0, 0), v2(1, 0),
			v2(0, 1), v2(1, 0), v2(1, 1),
		},
	}
}

// Quad is a 2x2 plane on xz facing +y
func Quad() Geometry {
	return Geometry{
		Topology: device.Topology_Triangles,
		Positions: []gglm.Vec3{
			v3(-1, 0, 1), v3(-1, 0, -1), v3(1, 0, -1),
			v3(-1, 0, 1), v3(1, 0, -1), v3(1, 0, 1),
		},
		Normals: repeat3(v3(0, 1, 0), 6),
		Texcoords: []gglm.Vec2{
			v2(0, 1), v2(0, 0), v2(1, 0),
			v2(0, 1), v2(1, 0), v2(1, 1),
		},
	}
}

func Triangle() Geometry {
	return Geometry{
		Topology:  device.Topology_Triangles,
		Positions: []gglm.Vec3{v3(-0.5, -0.5, 0), v3(0.5, -0.5, 0), v3(0, 0.5, 0)},
		Normals:   []gglm.Vec3{v3(-0.5, -0.5, 0), v3(0.5, -0.5, 0), v3(0, 0.5, 0)},
		Texcoords: []gglm.Vec2{v2(1, 1), v2(0, 0), v2(0, 1)},
	}
}

// Grid is a 2x2 line grid on xz with lines every 0.5
func Grid() Geometry {

	g := Geometry{Topology: device.Topology_Lines}
	for i := 0; i <= 4; i++ {
		x := -1 + 0.5*float32(i)
		g.Positions = append(g.Positions, v3(x, 0, -1), v3(x, 0, 1))
	}

	for i := 0; i <= 4; i++ {
		z := -1 + 0.5*float32(i)
		g.Positions = append(g.Positions, v3(-1, 0, z), v3(1, 0, z))
	}

	return g
}

// Gizmo is three unit lines along the x, y and z axes
func Gizmo() Geometry {
	return Geometry{
		Topology: device.Topology_Lines,
		Positions: []gglm.Vec3{
			v3(1, 0, 0), v3(0, 0, 0),
			v3(0, 1, 0), v3(0, 0, 0),
			v3(0, 0, 1), v3(0, 0, 0),
		},
	}
}

// WireCube is the 12 edges of a unit cube centered at the origin
func WireCube() Geometry {

	c := [8]gglm.Vec3{
		v3(-0.5, -0.5, 0.5), v3(0.5, -0.5, 0.5), v3(0.5, 0.5, 0.5), v3(-0.5, 0.5, 0.5),
		v3(-0.5, -0.5, -0.5), v3(0.5, -0.5, -0.5), v3(0.5, 0.5, -0.5), v3(-0.5, 0.5, -0.5),
	}

	return Geometry{
		Topology: device.Topology_Lines,
		Positions: []gglm.Vec3{
			c[0], c[1], c[1], c[2], c[2], c[3], c[3], c[0],
			c[4], c[5], c[5], c[6], c[6], c[7], c[7], c[4],
			c[0], c[4], c[1], c[5], c[2], c[6], c[3], c[7],
		},
	}
}

// WirePyramid is a square based pyramid with unit edges, drawn with indices
func WirePyramid() Geometry {

	const edgeOver2 = 0.5
	heightOver2 := float32(math.Sqrt2) / 4

	return Geometry{
		Topology: device.Topology_Lines,
		Positions: []gglm.Vec3{
			v3(-edgeOver2, -heightOver2, edgeOver2),
			v3(edgeOver2, -heightOver2, edgeOver2),
			v3(edgeOver2, -heightOver2, -edgeOver2),
			v3(-edgeOver2, -heightOver2, -edgeOver2),
			v3(0, heightOver2, 0),
		},
		Indices: []uint32{0, 1, 1, 2, 2, 3, 3, 0, 0, 4, 1, 4, 2, 4, 3, 4},
	}
}

// WireSphere is a unit sphere of latitude and longitude lines. An odd stack count is rounded up.
func WireSphere(slices, stacks uint32) Geometry {

	if stacks%2 != 0 {
		stacks++
	}

	g := Geometry{Topology: device.Topology_Lines}
	if slices == 0 || stacks == 0 {
		return g
	}

	deltaTheta := 2 * math.Pi / float64(slices)
	deltaPhi := math.Pi / float64(stacks)

	point := func(phi, theta float64) gglm.Vec3 {
		return v3(
			float32(math.Cos(phi)*math.Cos(theta)),
			float32(math.Sin(phi)),
			float32(math.Cos(phi)*math.Sin(theta)),
		)
	}

	appendStrip := func(strip []gglm.Vec3) {
		for k := 0; k < len(strip)-1; k++ {
			g.Positions = append(g.Positions, strip[k], strip[k+1])
		}
	}

	// Latitude lines
	phi := -math.Pi / 2
	for i := uint32(0); i < stacks; i++ {

		phi += deltaPhi
		theta := 0.0
		strip := make([]gglm.Vec3, 0, slices+1)
		for j := uint32(0); j <= slices; j++ {
			theta += deltaTheta
			strip = append(strip, point(phi, theta))
		}

		appendStrip(strip)
	}

	// Longitude lines
	theta := 0.0
	for i := uint32(0); i <= slices; i++ {

		theta += deltaTheta
		phi := 0.0
		strip := make([]gglm.Vec3, 0, 2*stacks+1)
		for j := uint32(0); j <= 2*stacks; j++ {
			phi += deltaPhi
			strip = append(strip, point(phi, theta))
		}

		appendStrip(strip)
	}

	return g
}
