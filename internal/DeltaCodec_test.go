package internal

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaWriter_Layout(t *testing.T) {
	source := bytes.NewReader([]byte("0123456789"))
	var out bytes.Buffer
	writer := NewDeltaWriter(&out)

	require.NoError(t, writer.WriteCopyCommand(4096, 2048))
	require.NoError(t, writer.WriteDataCommand(source, 3, 4))
	require.NoError(t, writer.Flush())

	encoded := out.Bytes()
	require.Len(t, encoded, copyCommandSize+dataCommandHeaderSize+4)

	assert.Equal(t, byte(0x60), encoded[0])
	assert.Equal(t, uint64(4096), binary.LittleEndian.Uint64(encoded[1:9]))
	assert.Equal(t, uint64(2048), binary.LittleEndian.Uint64(encoded[9:17]))

	data := encoded[copyCommandSize:]
	assert.Equal(t, byte(0x80), data[0])
	assert.Equal(t, uint64(4), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, []byte("3456"), data[9:])
}

func TestDeltaWriter_DataCommandRestoresSourcePosition(t *testing.T) {
	source := bytes.NewReader(randomBytes(300, 10000))
	_, err := source.Seek(777, io.SeekStart)
	require.NoError(t, err)

	var written int64
	writer := NewDeltaWriter(io.Discard)
	writer.WriteDelegate = func(n int64) { written += n }

	require.NoError(t, writer.WriteDataCommand(source, 100, 9000))
	require.NoError(t, writer.WriteCopyCommand(0, 1))

	position, err := source.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(777), position)
	assert.Equal(t, int64(dataCommandHeaderSize+9000+copyCommandSize), written)
}

func TestDeltaWriter_DataCommandOutOfRange(t *testing.T) {
	source := bytes.NewReader([]byte("short"))
	writer := NewDeltaWriter(io.Discard)

	assert.Error(t, writer.WriteDataCommand(source, 2, 10))
	assert.Error(t, writer.WriteDataCommand(source, 0, 0))
}

func TestDeltaReader_Commands(t *testing.T) {
	source := bytes.NewReader([]byte("hello world"))
	var out bytes.Buffer
	writer := NewDeltaWriter(&out)
	require.NoError(t, writer.WriteDataCommand(source, 0, 5))
	require.NoError(t, writer.WriteCopyCommand(10, 20))
	require.NoError(t, writer.WriteDataCommand(source, 6, 5))
	require.NoError(t, writer.Flush())

	reader := NewDeltaReader(bytes.NewReader(out.Bytes()))

	command, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, DeltaCommand{Kind: DataCommand, Length: 5}, command)
	// Literal bytes left unread are skipped by Next

	command, err = reader.Next()
	require.NoError(t, err)
	assert.Equal(t, DeltaCommand{Kind: CopyCommand, BaseOffset: 10, Length: 20}, command)
	literal, err := io.ReadAll(reader.Data())
	require.NoError(t, err)
	assert.Empty(t, literal, "copy commands carry no data")

	command, err = reader.Next()
	require.NoError(t, err)
	assert.Equal(t, DataCommand, command.Kind)
	literal, err = io.ReadAll(reader.Data())
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), literal)

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDeltaReader_EmptyStream(t *testing.T) {
	commands, data, err := NewDeltaReader(bytes.NewReader(nil)).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, commands)
	assert.Empty(t, data)
}

func TestDeltaReader_RejectsMalformedInput(t *testing.T) {
	copyRecord := func(position, length int64) []byte {
		record := []byte{byte(CopyCommand)}
		record = binary.LittleEndian.AppendUint64(record, uint64(position))
		return binary.LittleEndian.AppendUint64(record, uint64(length))
	}
	dataRecord := func(length int64, payload []byte) []byte {
		record := binary.LittleEndian.AppendUint64([]byte{byte(DataCommand)}, uint64(length))
		return append(record, payload...)
	}

	cases := map[string][]byte{
		"unknown tag":          {0x42},
		"truncated copy":       copyRecord(0, 10)[:12],
		"truncated data":       dataRecord(10, []byte("abc")),
		"truncated data len":   dataRecord(10, nil)[:5],
		"zero length data":     dataRecord(0, nil),
		"negative copy offset": copyRecord(-1, 10),
		"zero length copy":     copyRecord(0, 0),
		"garbage after copy":   append(copyRecord(0, 10), 0x00),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := NewDeltaReader(bytes.NewReader(input)).ReadAll()
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestDeltaCommandKind_String(t *testing.T) {
	assert.Equal(t, "copy", CopyCommand.String())
	assert.Equal(t, "data", DataCommand.String())
}
