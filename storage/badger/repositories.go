package badger

// Repositories bundles every repository sharing one backend.
type Repositories struct {
	Backend     *Backend
	Sections    *SectionRepository
	Checkpoints *CheckpointRepository
	Selections  *SelectionRepository
}

// Close releases the repositories and closes the backend.
func (r *Repositories) Close() error {
	if err := r.Sections.Close(); err != nil {
		r.Backend.Close()
		return err
	}
	return r.Backend.Close()
}

// OpenRepositories creates every repository on backend. Closing the result
// closes backend.
func OpenRepositories(backend *Backend) (*Repositories, error) {
	sections, err := NewSectionRepository(backend)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Backend:     backend,
		Sections:    sections,
		Checkpoints: NewCheckpointRepository(backend),
		Selections:  NewSelectionRepository(backend),
	}, nil
}
