package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivationapp/motivation-service/internal/domain"
)

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake()
	s := New(clk)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	clk.Add(59 * time.Second)
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	clk.Add(time.Second)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Check(t *testing.T) {
	s := New(nil)

	assert.Equal(t, "store", s.Name())
	assert.NoError(t, s.Check(context.Background()))
}
