package buffers

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"math"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/shaders"
	"golang.org/x/crypto/blake2b"
)

// separator is written between the hashed sections
const separator = "--#!@#!@#--"

// Key identifies the device buffers for a (geometry, shader) pair.
// Equal keys are treated as identical content, with no further comparison.
type Key [blake2b.Size256]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:6])
}

// Hash computes the content key of g as consumed by p. Only the attributes p declares
// are hashed, so geometries that differ only in attributes p ignores share a key.
func Hash(g *geometry.Geometry, p *shaders.Program) (Key, error) {

	attribs, err := declaredAttribs(g, p)
	if err != nil {
		return Key{}, err
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return Key{}, err
	}

	w := hashWriter{h: h}
	w.vec3s(g.Positions)
	w.separator()

	if attribs.normals {
		w.vec3s(g.Normals)
	}
	w.separator()

	if attribs.texcoords {
		w.vec2s(g.Texcoords)
	}
	w.separator()

	w.uint32s(g.Indices)
	w.separator()

	w.bytes([]byte(p.Source()))

	var k Key
	h.Sum(k[:0])
	return k, nil
}

type attribSet struct {
	positionLoc uint32
	normalLoc   int32
	texcoordLoc int32

	normals   bool
	texcoords bool
}

// declaredAttribs returns which geometry attributes are consumed by p and where
func declaredAttribs(g *geometry.Geometry, p *shaders.Program) (attribSet, error) {

	posLoc, err := p.AttribLocation(shaders.AttribPosition)
	if err != nil {
		return attribSet{}, err
	}

	if posLoc == -1 {
		return attribSet{}, fmt.Errorf("%w: program '%s' does not declare '%s'", ErrMissingAttribute, p.Name, shaders.AttribPosition)
	}

	if len(g.Positions) == 0 {
		return attribSet{}, ErrEmptyGeometry
	}

	if err := g.Validate(); err != nil {
		return attribSet{}, fmt.Errorf("invalid geometry: %w", err)
	}

	normalLoc, err := p.AttribLocation(shaders.AttribNormal)
	if err != nil {
		return attribSet{}, err
	}

	texcoordLoc, err := p.AttribLocation(shaders.AttribTexcoord)
	if err != nil {
		return attribSet{}, err
	}

	return attribSet{
		positionLoc: uint32(posLoc),
		normalLoc:   normalLoc,
		texcoordLoc: texcoordLoc,
		normals:     normalLoc != -1 && g.HasNormals(),
		texcoords:   texcoordLoc != -1 && g.HasTexcoords(),
	}, nil
}

type hashWriter struct {
	h   hash.Hash
	buf []byte
}

func (w *hashWriter) flush() {
	w.h.Write(w.buf)
	w.buf = w.buf[:0]
}

// length prefixes every section so sections can not run into each other
func (w *hashWriter) length(n int) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(n))
}

func (w *hashWriter) separator() {
	w.buf = append(w.buf, separator...)
	w.flush()
}

func (w *hashWriter) vec3s(vs []gglm.Vec3) {

	w.length(len(vs))
	for i := range vs {
		for _, f := range vs[i].Data {
			w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(f))
		}
	}

	w.flush()
}

func (w *hashWriter) vec2s(vs []gglm.Vec2) {

	w.length(len(vs))
	for i := range vs {
		for _, f := range vs[i].Data {
			w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(f))
		}
	}

	w.flush()
}

func (w *hashWriter) uint32s(vs []uint32) {

	w.length(len(vs))
	for _, v := range vs {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	}

	w.flush()
}

func (w *hashWriter) bytes(b []byte) {
	w.length(len(b))
	w.flush()
	w.h.Write(b)
}

// flatten3 returns the vectors as tightly packed floats
func flatten3(vs []gglm.Vec3) []float32 {

	out := make([]float32, 0, 3*len(vs))
	for i := range vs {
		out = append(out, vs[i].Data[:]...)
	}

	return out
}

func flatten2(vs []gglm.Vec2) []float32 {

	out := make([]float32, 0, 2*len(vs))
	for i := range vs {
		out = append(out, vs[i].Data[:]...)
	}

	return out
}
