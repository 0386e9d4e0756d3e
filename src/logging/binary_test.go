package logging

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func TestBinaryWriterReaderRoundTrip(t *testing.T) {
	records := []Record{
		{Time: time.UnixMicro(1000), ThreadID: 1, Level: Info, Type: TypeMessage, Category: "core", Message: "hello"},
		{Time: time.UnixMicro(2000), ThreadID: 2, Level: Debug, Type: TypeIntValue, Category: "plan", Message: "", Data: IntValueData(42)},
		{Time: time.UnixMicro(3000), ThreadID: 1, Level: Error, Type: TypeMessage, Category: "toolchain", Message: "compile failed: exit status 1"},
		{Time: time.UnixMicro(4000), ThreadID: 3, Level: Verbose, Type: TypeRecursiveSpanBegin, Category: "tracing", Message: "link program"},
	}

	buf := &bytes.Buffer{}
	bw, err := NewBinaryWriter(nopWriteCloser{buf})
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, bw.Write(r))
	}
	require.NoError(t, bw.Close())

	br, err := NewBinaryReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, br.Version)

	var got []Record
	for {
		r, err := br.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, r)
	}
	assert.Equal(t, records, got)
}

func TestBinaryReaderRejectsBadMagic(t *testing.T) {
	_, err := NewBinaryReader(bytes.NewReader([]byte("not a craft log file!!!")))
	assert.Error(t, err)
}
