package cart

import "errors"

// ErrNonPositiveQuantity is returned by AddItem when asked to add zero or fewer units.
var ErrNonPositiveQuantity = errors.New("quantity must be positive")
