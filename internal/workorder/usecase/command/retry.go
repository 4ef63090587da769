package command

import (
	"errors"

	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

// maxRetries bounds automatic retries of optimistic-lock races. Only
// errs.ErrConcurrentModification is retried; it signals a transient
// race, not a business rule violation.
const maxRetries = 3

// withVersionRetry runs fn, retrying when the guarded write lost a
// version race. fn must re-read and re-validate on every attempt.
func withVersionRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if !errors.Is(err, errs.ErrConcurrentModification) {
			return err
		}
	}
	return err
}
