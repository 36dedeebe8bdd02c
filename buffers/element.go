package buffers

import (
	"github.com/bloeys/nrender/assert"
	"github.com/bloeys/nrender/shaders"
)

// Element is one component group of a vertex buffer, e.g. a Vec3 at byte offset 12
type Element struct {
	Offset int
	ElementType
}

// ElementType is the float layout of one vertex attribute
type ElementType uint8

const (
	ElementType_Unknown ElementType = iota
	ElementType_Float32
	ElementType_Vec2
	ElementType_Vec3
	ElementType_Vec4
)

// attribElement is the layout every geometry attribute is uploaded with
func attribElement(attrib string) Element {

	switch attrib {
	case shaders.AttribPosition, shaders.AttribNormal:
		return Element{ElementType: ElementType_Vec3}
	case shaders.AttribTexcoord:
		return Element{ElementType: ElementType_Vec2}

	default:
		assert.T(false, "No vertex layout for attribute '%s'", attrib)
		return Element{}
	}
}

// CompSize is the size in bytes of one component. All element types are float32 based.
func (dt ElementType) CompSize() int32 {

	if dt == ElementType_Unknown || dt > ElementType_Vec4 {
		assert.T(false, "Unknown element type '%d'", dt)
		return 0
	}

	return 4
}

func (dt ElementType) CompCount() int32 {

	switch dt {
	case ElementType_Float32:
		return 1
	case ElementType_Vec2:
		return 2
	case ElementType_Vec3:
		return 3
	case ElementType_Vec4:
		return 4

	default:
		assert.T(false, "Unknown element type '%d'", dt)
		return 0
	}
}

// Size is the element size in bytes, e.g. 12 for a Vec3
func (dt ElementType) Size() int32 {
	return dt.CompCount() * dt.CompSize()
}

func (dt ElementType) String() string {

	switch dt {
	case ElementType_Float32:
		return "float32"
	case ElementType_Vec2:
		return "vec2"
	case ElementType_Vec3:
		return "vec3"
	case ElementType_Vec4:
		return "vec4"

	default:
		return "unknown"
	}
}
