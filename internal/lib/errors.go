package lib

import "fmt"

// WrapError returns an error that matches both parent and child with errors.Is
func WrapError(parent error, child error) error {
	if child == nil {
		return parent
	}
	return fmt.Errorf("%w: %w", parent, child)
}
