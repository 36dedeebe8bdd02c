// Package materials bundles a program, a render state and a set of params that are drawn together.
package materials

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/shaders"
)

var (
	lastMatId uint32
)

type MaterialSettings uint64

const (
	MaterialSettings_None        MaterialSettings = iota
	MaterialSettings_HasModelMtx MaterialSettings = 1 << (iota - 1)
)

func (ms *MaterialSettings) Set(flags MaterialSettings) {
	*ms |= flags
}

func (ms *MaterialSettings) Remove(flags MaterialSettings) {
	*ms &= ^flags
}

func (ms *MaterialSettings) Has(flags MaterialSettings) bool {
	return *ms&flags == flags
}

type param struct {
	name  string
	value shaders.Value
}

type Material struct {
	Id       uint32
	Name     string
	Program  *shaders.Program
	State    *gpustate.State
	Settings MaterialSettings

	// params are applied in the order they were first set
	params []param
}

// SetParam stores a param applied on every draw with this material
func (m *Material) SetParam(name string, v shaders.Value) {

	for i := range m.params {
		if m.params[i].name == name {
			m.params[i].value = v
			return
		}
	}

	m.params = append(m.params, param{name: name, value: v})
}

func (m *Material) Param(name string) (shaders.Value, bool) {

	for i := range m.params {
		if m.params[i].name == name {
			return m.params[i].value, true
		}
	}

	return nil, false
}

// SetModelMat sets 'modelMat' if the material has MaterialSettings_HasModelMtx
func (m *Material) SetModelMat(modelMat gglm.Mat4) {
	if m.Settings.Has(MaterialSettings_HasModelMtx) {
		m.SetParam("modelMat", shaders.Mat4(modelMat))
	}
}

// Apply sets all params on the program. Params the program does not declare are skipped.
func (m *Material) Apply() error {

	for i := range m.params {
		if err := m.Program.TryParam(m.params[i].name, m.params[i].value); err != nil {
			return err
		}
	}

	return nil
}

func getNewMatId() uint32 {
	lastMatId++
	return lastMatId
}

func NewMaterial(matName string, prog *shaders.Program) *Material {
	return &Material{
		Id:      getNewMatId(),
		Name:    matName,
		Program: prog,
		State:   gpustate.NewState(),
	}
}
