package editor

// Tool is the currently selected editing tool.
type Tool int

const (
	ToolColor Tool = iota
	ToolEraser
	ToolFill
	ToolImage
)

func (t Tool) String() string {
	switch t {
	case ToolColor:
		return "Pixel"
	case ToolEraser:
		return "Eraser"
	case ToolFill:
		return "Fill"
	case ToolImage:
		return "Image"
	default:
		return "Unknown"
	}
}
