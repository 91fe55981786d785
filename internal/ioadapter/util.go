package ioadapter

import "github.com/pkg/errors"

func errUnexpectedFieldCount(want, got int) error {
	return errors.Errorf("expected %d fields, got %d", want, got)
}
