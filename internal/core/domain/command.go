package domain

// Command is one external process invocation.
type Command struct {
	// Name is the program, looked up in PATH unless absolute.
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env holds "KEY=VALUE" overrides applied on top of the process environment.
	Env []string
}

// NewCommand builds a Command from an argv slice.
func NewCommand(argv ...string) Command {
	if len(argv) == 0 {
		return Command{}
	}
	return Command{Name: argv[0], Args: argv[1:]}
}

// InDir returns a copy of c running in dir.
func (c Command) InDir(dir string) Command {
	c.Dir = dir
	return c
}

// WithEnv returns a copy of c with additional environment entries.
func (c Command) WithEnv(env ...string) Command {
	merged := make([]string, 0, len(c.Env)+len(env))
	merged = append(merged, c.Env...)
	merged = append(merged, env...)
	c.Env = merged
	return c
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}
