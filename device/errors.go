package device

import "fmt"

type ShaderStage int32

const (
	ShaderStage_Vertex ShaderStage = iota
	ShaderStage_Fragment
	ShaderStage_Link
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStage_Vertex:
		return "vertex"
	case ShaderStage_Fragment:
		return "fragment"
	case ShaderStage_Link:
		return "link"
	default:
		return fmt.Sprintf("ShaderStage(%d)", int32(s))
	}
}

// CompileError carries the driver log of a failed shader compile or program link
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	if e.Stage == ShaderStage_Link {
		return "program link failed: " + e.Log
	}

	return e.Stage.String() + " shader compilation failed: " + e.Log
}
