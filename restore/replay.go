package restore

import (
	"github.com/fatih/color"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/projectmodel"
)

// Replayer writes cached restore diagnostics the way restore printed them:
//
//	/src/app/app.csproj : error NU1101: Unable to find package X.
//
// Errors and warnings are coloured when Colorize is set.
type Replayer struct {
	Console  Console
	Colorize bool
}

// Replay writes every message of logs in order. Messages without a file
// path are attributed to projectPath. It returns the number of errors and
// warnings replayed.
func (r *Replayer) Replay(logs []*projectmodel.AssetsLogMessage, projectPath string) (errors, warnings int) {
	for _, m := range logs {
		path := m.FilePath
		if path == "" {
			path = projectPath
		}
		switch m.Level {
		case librarymodel.LogLevelError:
			errors++
			r.Console.Printf("    %s : %s: %s\n", path, r.label("error", m.Code, color.FgRed), m.Message)
		case librarymodel.LogLevelWarning:
			warnings++
			r.Console.Printf("    %s : %s: %s\n", path, r.label("warning", m.Code, color.FgYellow), m.Message)
		default:
			r.Console.Printf("    %s\n", m.Message)
		}
	}
	return errors, warnings
}

func (r *Replayer) label(kind string, code librarymodel.NuGetLogCode, fg color.Attribute) string {
	text := kind + " " + code.String()
	if !r.Colorize {
		return text
	}
	c := color.New(fg, color.Bold)
	c.EnableColor()
	return c.Sprint(text)
}
