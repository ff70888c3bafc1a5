package sequence

// Index maps a frame number onto the sequence with wraparound, so
// animations loop. Negative frames wrap from the end.
func (s *Sequence) Index(frame int) (int, error) {
	n := s.Len()
	if n == 0 {
		return 0, ErrEmptySequence
	}
	idx := frame % n
	if idx < 0 {
		idx += n
	}
	return idx, nil
}

// Resolve returns the file path for a frame number.
func (s *Sequence) Resolve(frame int) (string, error) {
	idx, err := s.Index(frame)
	if err != nil {
		return "", err
	}
	return s.paths[idx], nil
}
