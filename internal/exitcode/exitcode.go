package exitcode

const (
	Success     = 0
	UsageError  = 1
	InputError  = 2
	RenderError = 3
	ConfigError = 4
	ExportError = 5
)
