package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	size     int
	name     string
	calls    []string
	validErr error
}

func (c *testConfig) Validate() error {
	c.calls = append(c.calls, "validate")
	return c.validErr
}

type plainConfig struct {
	size int
}

func TestNew(t *testing.T) {
	t.Run("applies fallible setter", func(t *testing.T) {
		cfg := &testConfig{}
		opt := New(func(c *testConfig) error {
			c.size = 42
			return nil
		})

		require.NoError(t, opt.apply(cfg))
		require.Equal(t, 42, cfg.size)
	})

	t.Run("propagates setter error", func(t *testing.T) {
		cfg := &testConfig{}
		opt := New(func(c *testConfig) error {
			return errors.New("size cannot be negative")
		})

		err := opt.apply(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "size cannot be negative")
	})
}

func TestNoError(t *testing.T) {
	cfg := &testConfig{}
	opt := NoError(func(c *testConfig) {
		c.name = "blocks"
	})

	require.NoError(t, opt.apply(cfg))
	require.Equal(t, "blocks", cfg.name)
}

func TestApply(t *testing.T) {
	t.Run("applies in order then validates", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg,
			NoError(func(c *testConfig) { c.calls = append(c.calls, "first") }),
			nil,
			NoError(func(c *testConfig) { c.calls = append(c.calls, "second") }),
		)

		require.NoError(t, err)
		require.Equal(t, []string{"first", "second", "validate"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		boom := errors.New("boom")
		err := Apply(cfg,
			New(func(c *testConfig) error { return boom }),
			NoError(func(c *testConfig) { c.calls = append(c.calls, "never") }),
		)

		require.ErrorIs(t, err, boom)
		require.Empty(t, cfg.calls)
	})

	t.Run("reports validation failure", func(t *testing.T) {
		invalid := errors.New("invalid")
		cfg := &testConfig{validErr: invalid}

		require.ErrorIs(t, Apply(cfg), invalid)
	})

	t.Run("targets without validator", func(t *testing.T) {
		cfg := &plainConfig{}
		err := Apply(cfg, NoError(func(c *plainConfig) { c.size = 7 }))

		require.NoError(t, err)
		require.Equal(t, 7, cfg.size)
	})
}
