package fd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oichkatzele/minikernel/internal/fd"
)

func TestPipeRoundTripsWrittenBytes(t *testing.T) {
	table := fd.NewTable()
	readFD, writeFD := fd.Pipe(table)
	assert.NotEqual(t, readFD, writeFD)

	w, ok := table.Get(writeFD)
	require.True(t, ok)
	n, err := w.Write([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	r, ok := table.Get(readFD)
	require.True(t, ok)
	buf := make([]byte, 4)
	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "data", string(buf))
}

func TestPipeReadEndCannotWrite(t *testing.T) {
	table := fd.NewTable()
	readFD, _ := fd.Pipe(table)
	r, _ := table.Get(readFD)
	_, err := r.Write([]byte("x"))
	assert.Error(t, err)
}
