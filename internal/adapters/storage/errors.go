package storage

import "errors"

// errNullCollection marks a stored collection that decoded to JSON null.
var errNullCollection = errors.New("stored collection is null")
