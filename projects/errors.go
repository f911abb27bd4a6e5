package projects

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	What string
	ID   string
}

var _ error = new(NotFoundError)

func (n *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", n.What, n.ID)
}

func (n *NotFoundError) Unwrap() error {
	return ErrNotFound
}
