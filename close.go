package filestore

import "context"

// Close releases the remote filesystem client.
//
// The client is released exactly once; later calls, and every operation
// after Close, return an error satisfying errors.Is(err, ErrClosed).
func (s *FileStore) Close() error {
	if s == nil {
		return nil
	}
	if s.closed.Swap(true) {
		return ErrClosed
	}

	err := s.client.Close()
	s.logger.LogClose(context.Background(), err)
	return err
}
