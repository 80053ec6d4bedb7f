package studies

import "errors"

var (
	ErrReadOnly    = errors.New("store is read-only")
	ErrBatchActive = errors.New("a batch is already processing")
)
