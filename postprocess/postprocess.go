// Package postprocess runs full screen passes that read the color of framebuffer targets
// and write into another target.
//
//	step.Inputs("#main").
//		With("inverse.fs").
//		Param("intensity", shaders.Float(15)).
//		Resulting("#inverse")
package postprocess

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/framebuffers"
	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/logging"
	"github.com/bloeys/nrender/renderer"
	"github.com/bloeys/nrender/shaders"
)

// VertexShader is paired with every postprocess fragment shader
const VertexShader = "postprocess.vs"

// ErrFeedbackLoop is returned when the output target is also one of the inputs
var ErrFeedbackLoop = errors.New("postprocess output is also an input")

// Step accumulates inputs, a shader and params until Resulting draws them.
// Like render commands, the first error is kept and returned by Resulting.
type Step struct {
	rend    *renderer.Renderer
	shaders renderer.ShaderSource
	targets *framebuffers.Registry

	quad  geometry.Geometry
	state *gpustate.State

	inputs  []*framebuffers.Target
	program *shaders.Program
	err     error
}

func New(rend *renderer.Renderer, shaderSrc renderer.ShaderSource, targets *framebuffers.Registry) *Step {
	return &Step{
		rend:    rend,
		shaders: shaderSrc,
		targets: targets,
		quad:    geometry.ScreenQuad(),
		state:   gpustate.NewState().NoDepth().NoDepthWrite(),
	}
}

// Inputs adds targets by name. Input i is sampled as 'tex<i>'.
func (s *Step) Inputs(names ...string) *Step {

	for _, name := range names {
		s.inputs = append(s.inputs, s.targets.Get(name))
	}

	return s
}

func (s *Step) InputTargets(targets ...*framebuffers.Target) *Step {
	s.inputs = append(s.inputs, targets...)
	return s
}

// With sets the fragment shader, which is paired with VertexShader
func (s *Step) With(fragmentID string) *Step {

	if s.err != nil {
		return s
	}

	p, err := s.shaders.Shader(VertexShader, fragmentID)
	if err != nil {
		s.err = fmt.Errorf("failed to resolve postprocess shader '%s': %w", fragmentID, err)
		return s
	}

	s.program = p
	return s
}

// Param sets a uniform on the step's shader, which must already be set with With
func (s *Step) Param(name string, v shaders.Value) *Step {

	if s.err != nil {
		return s
	}

	if s.program == nil {
		s.err = fmt.Errorf("%w: postprocess shader must be set with With before param '%s'", renderer.ErrMissingPipelineInput, name)
		return s
	}

	if err := s.program.Param(name, v); err != nil {
		s.err = err
	}

	return s
}

// Pending reports whether inputs, a shader or an error are waiting for Resulting
func (s *Step) Pending() bool {
	return len(s.inputs) > 0 || s.program != nil || s.err != nil
}

// Resulting draws the inputs through the shader into the named target and clears
// the step, whether drawing succeeded or not
func (s *Step) Resulting(name string) error {
	return s.ResultingTarget(s.targets.Get(name))
}

func (s *Step) ResultingTarget(out *framebuffers.Target) error {

	defer s.reset()

	if s.err != nil {
		return s.err
	}

	if len(s.inputs) == 0 {
		return fmt.Errorf("%w: postprocess into '%s' has no inputs", renderer.ErrMissingPipelineInput, out.Name)
	}

	if s.program == nil {
		return fmt.Errorf("%w: postprocess into '%s' has no shader, use With", renderer.ErrMissingPipelineInput, out.Name)
	}

	if slices.Contains(s.inputs, out) {
		return fmt.Errorf("%w: '%s'", ErrFeedbackLoop, out.Name)
	}

	first := s.inputs[0].ColorTexture()
	if first == nil {
		return fmt.Errorf("%w: postprocess input '%s' has no color attachment", framebuffers.ErrNoAttachments, s.inputs[0].Name)
	}

	w, h := first.Size()
	if _, err := out.ColorSized(w, h); err != nil {
		return err
	}

	if err := out.Bind(); err != nil {
		return err
	}

	for i, in := range s.inputs {

		tex := in.ColorTexture()
		if tex == nil {
			return fmt.Errorf("%w: postprocess input '%s' has no color attachment", framebuffers.ErrNoAttachments, in.Name)
		}

		samplerName := fmt.Sprintf("tex%d", i)
		err := s.program.Param(samplerName, shaders.Tex(tex))
		if errors.Is(err, shaders.ErrParamNotFound) {
			logging.WarnLog.Printf("Postprocess shader '%s' does not sample input '%s' as '%s'\n", s.program.Name, in.Name, samplerName)
			continue
		}

		if err != nil {
			return err
		}
	}

	if err := s.program.TryParam("transform", shaders.Mat4(gglm.NewMat4Diag(1))); err != nil {
		return err
	}

	return s.rend.Geometry(&s.quad).
		Program(s.program).
		State(s.state).
		Render()
}

func (s *Step) reset() {

	// A failed step may leave the program bound with sampler slots taken
	if s.program != nil && s.program.Bound() {
		s.program.Unbind()
	}

	s.inputs = s.inputs[:0]
	s.program = nil
	s.err = nil
}
