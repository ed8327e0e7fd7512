package pipeline

// SetCores overrides the core counter used when no job count is configured.
func (b *Builder) SetCores(cores func() int) {
	b.cores = cores
}
