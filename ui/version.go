package ui

// Version of the framework core, exclusive of the distribution it ships in.
const (
	MajorVersion = 2
	MinorVersion = 8
	Revision     = 3
)

// CoreBundle is the marker type of the installed framework distribution. The tag on its blank
// field is the artifact descriptor: it names the distribution package and its published version.
type CoreBundle struct {
	_ struct{} `package:"@ui/core" version:"14.8.2"`
}
