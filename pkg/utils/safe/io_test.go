package safe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/utils/safe"
)

type errCloser struct {
	closed bool
}

func (c *errCloser) Close() error {
	c.closed = true
	return errors.New("close failed")
}

func TestCloseSwallowsError(t *testing.T) {
	c := &errCloser{}
	safe.Close(context.Background(), c)
	gt.Bool(t, c.closed).True()
}

func TestCloseNilCloser(t *testing.T) {
	safe.Close(context.Background(), nil)
}
