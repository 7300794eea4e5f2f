package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/checkout"
)

func TestConcurrentBorrowNeverOverlends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const (
		copies   = 3
		students = 8
	)

	f.addBook(t, "ISBN1", copies, copies)

	for i := range students {
		f.addStudent(t, fmt.Sprintf("10000000%d", i), fmt.Sprintf("student-%d", i))
	}

	var lent, refused atomic.Int32

	g, gctx := errgroup.WithContext(ctx)

	for i := range students {
		g.Go(func() error {
			_, err := f.svc.Borrow(gctx, studentBorrow, fmt.Sprintf("10000000%d", i), "ISBN1")

			switch {
			case err == nil:
				lent.Add(1)
			case errors.Is(err, ErrUnavailable):
				refused.Add(1)
			default:
				return err
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(copies), lent.Load())
	assert.Equal(t, int32(students-copies), refused.Load())
	assert.Equal(t, 0, f.getBook(t, "ISBN1").AvailableCount)

	n, err := checkout.CountByBook(f.db, "ISBN1")
	require.NoError(t, err)
	assert.Equal(t, int64(copies), n)
}

func TestConcurrentBorrowAndReturnKeepCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const students = 4

	f.addBook(t, "ISBN1", 2, 2)

	for i := range students {
		f.addStudent(t, fmt.Sprintf("20000000%d", i), fmt.Sprintf("student-%d", i))
	}

	g, gctx := errgroup.WithContext(ctx)

	for i := range students {
		g.Go(func() error {
			id := fmt.Sprintf("20000000%d", i)

			for range 5 {
				_, err := f.svc.Borrow(gctx, studentBorrow, id, "ISBN1")
				if errors.Is(err, ErrUnavailable) {
					continue
				}

				if err != nil {
					return err
				}

				if _, err := f.svc.Return(gctx, studentReturn, id, "ISBN1"); err != nil {
					return err
				}
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())

	b := f.getBook(t, "ISBN1")
	assert.Equal(t, 2, b.AvailableCount)

	n, err := checkout.CountByBook(f.db, "ISBN1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
