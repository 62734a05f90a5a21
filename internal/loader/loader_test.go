package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesboard/salesboard/internal/core/sales"
	sourcemocks "github.com/salesboard/salesboard/internal/mocks/source"
	"github.com/salesboard/salesboard/internal/source"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func records(stores ...int) []sales.Record {
	out := make([]sales.Record, 0, len(stores))
	for _, s := range stores {
		out = append(out, sales.Record{StoreNbr: s, Sales: decimal.NewFromInt(int64(s))})
	}
	return out
}

func namedSource(t *testing.T, name string) *sourcemocks.Source {
	src := sourcemocks.NewSource(t)
	src.EXPECT().Name().Return(name).Maybe()
	return src
}

func TestLoader_ConcatenatesInOrder(t *testing.T) {
	first := namedSource(t, "parte_1")
	second := namedSource(t, "parte_2")
	first.EXPECT().Fetch(mock.Anything).Return(records(1, 2), nil).Once()
	second.EXPECT().Fetch(mock.Anything).Return(records(3), nil).Once()

	l := New(first, second)
	require.False(t, l.Ready())

	tbl, err := l.Table(context.Background())
	require.NoError(t, err)
	require.True(t, l.Ready())
	require.Equal(t, 3, tbl.Len())
	require.Equal(t, 1, tbl.At(0).StoreNbr)
	require.Equal(t, 3, tbl.At(2).StoreNbr)

	meta := tbl.Metadata()
	require.Equal(t, map[string]int{"parte_1": 2, "parte_2": 1}, meta.RowCounts)
	_, err = uuid.Parse(meta.LoadID)
	require.NoError(t, err)
	require.False(t, meta.LoadedAt.IsZero())
}

func TestLoader_LoadsOnce(t *testing.T) {
	src := namedSource(t, "parte_1")
	src.EXPECT().Fetch(mock.Anything).Return(records(1), nil).Once()

	l := New(src)
	first, err := l.Table(context.Background())
	require.NoError(t, err)
	second, err := l.Table(context.Background())
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestLoader_ConcurrentFirstCallsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	src := namedSource(t, "slow")
	src.EXPECT().Fetch(mock.Anything).
		RunAndReturn(func(context.Context) ([]sales.Record, error) {
			<-release
			return records(1, 2, 3), nil
		}).
		Once()

	l := New(src)

	const callers = 20
	var wg sync.WaitGroup
	tables := make([]*sales.Table, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], errs[i] = l.Table(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Same(t, tables[0], tables[i])
	}
}

func TestLoader_FailureIsNotCached(t *testing.T) {
	src := namedSource(t, "flaky")
	src.EXPECT().Fetch(mock.Anything).Return(nil, errors.New("connection refused")).Once()
	src.EXPECT().Fetch(mock.Anything).Return(records(4), nil).Once()

	l := New(src)

	_, err := l.Table(context.Background())
	require.ErrorContains(t, err, "loading flaky")
	require.False(t, l.Ready())

	tbl, err := l.Table(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
}

func TestLoader_NoPartialTable(t *testing.T) {
	good := namedSource(t, "good")
	bad := namedSource(t, "bad")
	good.EXPECT().Fetch(mock.Anything).Return(records(1), nil).Once()
	bad.EXPECT().Fetch(mock.Anything).Return(nil, source.ErrMissingColumn).Once()

	l := New(good, bad)
	tbl, err := l.Table(context.Background())
	require.ErrorIs(t, err, source.ErrMissingColumn)
	require.Nil(t, tbl)
	require.False(t, l.Ready())
}

func TestLoader_NoSources(t *testing.T) {
	_, err := New().Table(context.Background())
	require.ErrorIs(t, err, ErrNoSources)
}
