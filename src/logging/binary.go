package logging

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"
)

// Magic is the fixed 16-byte file header every AxeLogBinaryFile starts with.
const Magic = "AxeLogBinaryFile"

// FormatVersion is the current binary log format version.
const FormatVersion uint32 = 2

// MaxFileSize is the size budget given to the file sink (~64 MiB). Once a write
// would exceed this, the sink closes the file and silently drops further events.
const MaxFileSize int64 = 64 * 1024 * 1024

// BinaryWriter writes Records to the AxeLogBinaryFile format. It is safe for
// concurrent use; writes are serialized with a mutex.
type BinaryWriter struct {
	mu       sync.Mutex
	w        io.WriteCloser
	buf      *bufio.Writer
	written  int64
	overflow bool
}

// NewBinaryWriter wraps w, writing the magic header and version immediately.
func NewBinaryWriter(w io.WriteCloser) (*BinaryWriter, error) {
	bw := &BinaryWriter{w: w, buf: bufio.NewWriter(w)}
	if _, err := bw.buf.WriteString(Magic); err != nil {
		return nil, err
	}
	var versionBytes [4]byte
	binary.LittleEndian.PutUint32(versionBytes[:], FormatVersion)
	if _, err := bw.buf.Write(versionBytes[:]); err != nil {
		return nil, err
	}
	bw.written = int64(len(Magic) + 4)
	return bw, bw.buf.Flush()
}

// Write appends one record. Once the size budget has been exceeded it is a
// silent no-op rather than an error, so a runaway build doesn't fail just
// because its log outgrew the file sink.
func (bw *BinaryWriter) Write(r Record) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.overflow {
		return nil
	}
	body := encodeBody(r)
	frame := make([]byte, 8+len(body))
	binary.LittleEndian.PutUint64(frame, uint64(len(body)))
	copy(frame[8:], body)
	if bw.written+int64(len(frame)) > MaxFileSize {
		bw.overflow = true
		bw.buf.Flush()
		return bw.w.Close()
	}
	if _, err := bw.buf.Write(frame); err != nil {
		return err
	}
	bw.written += int64(len(frame))
	return bw.buf.Flush()
}

// Close flushes and closes the underlying writer, unless it already closed itself on overflow.
func (bw *BinaryWriter) Close() error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.overflow {
		return nil
	}
	bw.buf.Flush()
	return bw.w.Close()
}

func encodeBody(r Record) []byte {
	cat := []byte(r.Category)
	msg := []byte(r.Message)
	data := r.Data
	size := 8 + 4 + 1 + 1 + 4 + len(cat) + 4 + len(msg) + 4 + len(data)
	b := make([]byte, size)
	off := 0
	binary.LittleEndian.PutUint64(b[off:], uint64(r.Time.UnixMicro()))
	off += 8
	binary.LittleEndian.PutUint32(b[off:], r.ThreadID)
	off += 4
	b[off] = byte(r.Level)
	off++
	b[off] = byte(r.Type)
	off++
	off = putBytes(b, off, cat)
	off = putBytes(b, off, msg)
	putBytes(b, off, data)
	return b
}

func putBytes(b []byte, off int, v []byte) int {
	binary.LittleEndian.PutUint32(b[off:], uint32(len(v)))
	off += 4
	copy(b[off:], v)
	return off + len(v)
}

// BinaryReader reads Records back out of the format BinaryWriter produces.
type BinaryReader struct {
	r       *bufio.Reader
	Version uint32
}

// NewBinaryReader validates the magic/version header and returns a reader positioned
// at the first record.
func NewBinaryReader(r io.Reader) (*BinaryReader, error) {
	br := &BinaryReader{r: bufio.NewReader(r)}
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br.r, magic); err != nil {
		return nil, fmt.Errorf("reading log magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("not a craft binary log file (bad magic)")
	}
	var versionBytes [4]byte
	if _, err := io.ReadFull(br.r, versionBytes[:]); err != nil {
		return nil, fmt.Errorf("reading log version: %w", err)
	}
	br.Version = binary.LittleEndian.Uint32(versionBytes[:])
	return br, nil
}

// Next reads the next record, returning io.EOF when the stream is exhausted.
func (br *BinaryReader) Next() (Record, error) {
	var sizeBytes [8]byte
	if _, err := io.ReadFull(br.r, sizeBytes[:]); err != nil {
		return Record{}, err
	}
	size := binary.LittleEndian.Uint64(sizeBytes[:])
	body := make([]byte, size)
	if _, err := io.ReadFull(br.r, body); err != nil {
		return Record{}, err
	}
	return decodeBody(body)
}

func decodeBody(b []byte) (Record, error) {
	if len(b) < 14 {
		return Record{}, fmt.Errorf("log record too short")
	}
	off := 0
	micros := binary.LittleEndian.Uint64(b[off:])
	off += 8
	threadID := binary.LittleEndian.Uint32(b[off:])
	off += 4
	level := Level(b[off])
	off++
	typ := EventType(b[off])
	off++
	cat, off, err := getBytes(b, off)
	if err != nil {
		return Record{}, err
	}
	msg, off, err := getBytes(b, off)
	if err != nil {
		return Record{}, err
	}
	data, _, err := getBytes(b, off)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Time:     time.UnixMicro(int64(micros)),
		ThreadID: threadID,
		Level:    level,
		Type:     typ,
		Category: string(cat),
		Message:  string(msg),
		Data:     data,
	}, nil
}

func getBytes(b []byte, off int) ([]byte, int, error) {
	if off+4 > len(b) {
		return nil, 0, fmt.Errorf("truncated log record")
	}
	n := int(binary.LittleEndian.Uint32(b[off:]))
	off += 4
	if off+n > len(b) {
		return nil, 0, fmt.Errorf("truncated log record")
	}
	if n == 0 {
		// An empty field reads back as nil, the same as a Record whose Data
		// was never set.
		return nil, off, nil
	}
	return b[off : off+n], off + n, nil
}
