package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"

	"github.com/satishbabariya/safequery/internal/core/query/domain"
)

// Classify reads err with the dialect's classifier first and falls back to
// the driver-independent signals database/sql and the net stack expose.
func (d Dialect) Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}
	if d.ClassifyDriver != nil {
		if c, ok := d.ClassifyDriver(err); ok {
			if c.Diagnostic == "" {
				c.Diagnostic = err.Error()
			}
			return c
		}
	}
	return ClassifyCommon(err)
}

// ClassifyCommon recognises cancellation and connectivity failures that look
// the same regardless of driver.
func ClassifyCommon(err error) Classification {
	c := Classification{Kind: domain.FailureUnknown, Diagnostic: err.Error()}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.Kind = domain.FailureCanceled
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, net.ErrClosed),
		errors.As(err, &netErr):
		c.Kind = domain.FailureConnectivity
	}
	return c
}
