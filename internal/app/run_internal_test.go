package app

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

func TestEncodeAndClose(t *testing.T) {
	t.Parallel()
	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "top: soc\n")
		return err
	}
	diskFull := errors.New("no space left on device")

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		wc := &closeRecorder{}
		require.NoError(t, encodeAndClose(wc, write))
		require.True(t, wc.closed)
		require.Equal(t, "top: soc\n", wc.String())
	})

	t.Run("close error is reported", func(t *testing.T) {
		t.Parallel()
		wc := &closeRecorder{closeErr: diskFull}
		err := encodeAndClose(wc, write)
		require.ErrorIs(t, err, diskFull)
		require.ErrorContains(t, err, "failed to write report file")
	})

	t.Run("encode error wins over close error", func(t *testing.T) {
		t.Parallel()
		encodeErr := errors.New("unsupported")
		wc := &closeRecorder{closeErr: diskFull}
		err := encodeAndClose(wc, func(io.Writer) error { return encodeErr })
		require.ErrorIs(t, err, encodeErr)
		require.NotErrorIs(t, err, diskFull)
		require.True(t, wc.closed)
	})
}
