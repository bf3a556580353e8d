package config

const ConfigFileName = "xpress.yaml"

const DefaultPrompt = "> "

// Format names accepted in config files and on the command line
const (
	FormatMinified = "minified"
	FormatSpaced   = "spaced"
	FormatIndented = "indented"
)
