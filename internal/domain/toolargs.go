package domain

import "encoding/json"

// Tool names the assistant is allowed to call.
const (
	ToolGetCourseFee = "get_course_fee"
	ToolShowTime     = "show_time"
)

// ToolArgs is the decoded argument payload of a tool invocation. One concrete
// type exists per known tool, plus UnknownToolArgs for names the orchestrator
// does not recognize.
type ToolArgs interface {
	toolArgs()
}

// CourseFeeArgs are the arguments for get_course_fee.
type CourseFeeArgs struct {
	CourseID string `json:"courseId"`
}

func (CourseFeeArgs) toolArgs() {}

// ShowTimeArgs are the arguments for show_time, which takes none.
type ShowTimeArgs struct{}

func (ShowTimeArgs) toolArgs() {}

// UnknownToolArgs is the fallback for unrecognized tool names.
type UnknownToolArgs struct {
	Name string
	Raw  json.RawMessage
}

func (UnknownToolArgs) toolArgs() {}

// ParseToolArgs decodes the raw argument payload for the named tool. A
// malformed payload for a known tool decodes to its zero-valued schema rather
// than failing: a bad argument string must not abort the run.
func ParseToolArgs(name string, raw json.RawMessage) ToolArgs {
	switch name {
	case ToolGetCourseFee:
		var args CourseFeeArgs
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &args)
		}
		return args
	case ToolShowTime:
		return ShowTimeArgs{}
	default:
		return UnknownToolArgs{Name: name, Raw: raw}
	}
}
