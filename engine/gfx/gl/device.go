package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gui"
)

type texture struct {
	id     uint32
	w, h   int
	format gfx.TextureFormat
}

func (t *texture) Size() (int, int)          { return t.w, t.h }
func (t *texture) Format() gfx.TextureFormat { return t.format }

// Device implements gfx.Device on an OpenGL 3.3 core context. The context
// must be current on the calling thread for every method.
type Device struct {
	program  uint32
	uProj    int32
	uSampler int32
	vao      uint32
	vbo      uint32
	ebo      uint32
	info     gfx.Info
}

func NewDevice() (*Device, error) {
	d := &Device{}
	if err := d.init(); err != nil {
		d.Shutdown()
		return nil, err
	}
	d.info = gfx.Info{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
	core.Logger().Info("gl device ready", "vendor", d.info.Vendor, "renderer", d.info.Renderer, "version", d.info.Version)
	return d, nil
}

func (d *Device) Info() gfx.Info { return d.info }

func (d *Device) init() error {
	var err error
	d.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return err
	}
	d.uProj = gl.GetUniformLocation(d.program, gl.Str("uProjection\x00"))
	d.uSampler = gl.GetUniformLocation(d.program, gl.Str("uSampler\x00"))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.GenBuffers(1, &d.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)

	// layout(location = 0) in vec2 aPos;
	// layout(location = 1) in vec2 aUV;
	// layout(location = 2) in vec4 aColor; (normalized bytes)
	stride := int32(unsafe.Sizeof(gui.Vertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, unsafe.Offsetof(gui.Vertex{}.Pos))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(gui.Vertex{}.UV))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(gui.Vertex{}.Color))

	gl.BindVertexArray(0)
	return nil
}

func (d *Device) Shutdown() {
	if d.ebo != 0 {
		gl.DeleteBuffers(1, &d.ebo)
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
	}
}

func glFilter(f gfx.Filter) int32 {
	if f == gfx.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func clearErrors() {
	for gl.GetError() != gl.NO_ERROR {
	}
}

func (d *Device) CreateTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	t := &texture{w: desc.Width, h: desc.Height, format: desc.Format}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	internal, format := int32(gl.RGBA8), uint32(gl.RGBA)
	if desc.Format == gfx.FormatR8 {
		internal, format = gl.R8, gl.RED
		// Coverage reads back as (c, c, c, c): premultiplied white.
		swizzle := [4]int32{gl.RED, gl.RED, gl.RED, gl.RED}
		gl.TexParameteriv(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_RGBA, &swizzle[0])
	}

	var data unsafe.Pointer
	if desc.Pixels != nil {
		data = gl.Ptr(desc.Pixels)
	}
	clearErrors()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(desc.Width), int32(desc.Height), 0, format, gl.UNSIGNED_BYTE, data)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &t.id)
		if code == gl.OUT_OF_MEMORY {
			return nil, fmt.Errorf("%w: texture %dx%d", gfx.ErrOutOfMemory, desc.Width, desc.Height)
		}
		return nil, fmt.Errorf("create texture %dx%d: gl error 0x%x", desc.Width, desc.Height, code)
	}
	return t, nil
}

func (d *Device) UpdateTexture(gt gfx.Texture, x, y, w, h int, pixels []byte) error {
	t := gt.(*texture)
	format := uint32(gl.RGBA)
	if t.format == gfx.FormatR8 {
		format = gl.RED
	}
	clearErrors()
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(w), int32(h), format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("update texture %d rect (%d,%d %dx%d): gl error 0x%x", t.id, x, y, w, h, code)
	}
	return nil
}

func (d *Device) DeleteTexture(gt gfx.Texture) {
	t := gt.(*texture)
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func (d *Device) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) BeginPass(p gfx.Pass) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	// Premultiplied alpha.
	gl.BlendFuncSeparate(gl.ONE, gl.ONE_MINUS_SRC_ALPHA, gl.ONE_MINUS_DST_ALPHA, gl.ONE)
	gl.Viewport(0, 0, int32(p.Width), int32(p.Height))

	gl.UseProgram(d.program)
	gl.UniformMatrix4fv(d.uProj, 1, false, &p.Projection[0])
	gl.Uniform1i(d.uSampler, 0)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)
}

func (d *Device) Draw(cmd gfx.DrawCmd) error {
	t := cmd.Texture.(*texture)
	if t.id == 0 {
		return fmt.Errorf("draw: texture %dx%d was deleted", t.w, t.h)
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.Scissor(cmd.Scissor.X, cmd.Scissor.Y, cmd.Scissor.W, cmd.Scissor.H)

	vsize := len(cmd.Vertices) * int(unsafe.Sizeof(gui.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, vsize, gl.Ptr(cmd.Vertices), gl.STREAM_DRAW)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(cmd.Indices)*4, gl.Ptr(cmd.Indices), gl.STREAM_DRAW)
	gl.DrawElements(gl.TRIANGLES, int32(len(cmd.Indices)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	return nil
}

func (d *Device) EndPass() {
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	gl.Disable(gl.SCISSOR_TEST)
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
layout(location=2) in vec4 aColor;
uniform mat4 uProjection;
out vec2 vUV;
out vec4 vColor;
void main() {
    vUV = aUV;
    vColor = aColor;
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
uniform sampler2D uSampler;
in vec2 vUV;
in vec4 vColor;
out vec4 FragColor;
void main() {
    FragColor = vColor * texture(uSampler, vUV);
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
