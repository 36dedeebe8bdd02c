package shaders

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/colors"
)

// Value is a uniform value. The set of implementations is closed, one per uniform setter:
// Bool, Int, Float, Vec2, Vec3, Vec4, Mat2, Mat3, Mat4, Color and Sampler.
type Value interface {
	isValue()
}

type (
	Bool  bool
	Int   int32
	Float float32
	Vec2  gglm.Vec2
	Vec3  gglm.Vec3
	Vec4  gglm.Vec4
	Mat2  gglm.Mat2
	Mat3  gglm.Mat3
	Mat4  gglm.Mat4
	Color colors.Color
)

// Bindable is anything that can be bound to a texture sampler slot
type Bindable interface {
	Bind(slot uint32) error
}

// Sampler binds Texture to the next free sampler slot of the program and sets the uniform to that slot
type Sampler struct {
	Texture Bindable
}

func (Bool) isValue()    {}
func (Int) isValue()     {}
func (Float) isValue()   {}
func (Vec2) isValue()    {}
func (Vec3) isValue()    {}
func (Vec4) isValue()    {}
func (Mat2) isValue()    {}
func (Mat3) isValue()    {}
func (Mat4) isValue()    {}
func (Color) isValue()   {}
func (Sampler) isValue() {}

func Tex(t Bindable) Sampler {
	return Sampler{Texture: t}
}
