package services

import (
	"errors"
)

// ErrNoDataset is returned by every operation invoked before a dataset
// has been uploaded.
var ErrNoDataset = errors.New("no dataset loaded")
