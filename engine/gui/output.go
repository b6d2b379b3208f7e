package gui

type PlatformOutput struct {
	// CopiedText is set when the user cut or copied text this frame.
	CopiedText string
}

// FullOutput is what the GUI library produces at the end of a frame.
// Primitives are already tessellated and in paint order.
type FullOutput struct {
	Platform       PlatformOutput
	Textures       TexturesDelta
	Primitives     []ClippedPrimitive
	PixelsPerPoint float32
}

// Library is the immediate-mode GUI library as seen by the backend.
// BeginFrame is called exactly once per frame with that frame's input;
// EndFrame returns the frame's output, consumed exactly once.
type Library interface {
	BeginFrame(in RawInput)
	EndFrame() FullOutput
}
