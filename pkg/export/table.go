package export

import (
	"bufio"
	"io"
	"strconv"
)

// lineWriter writes delimited lines without quoting. Callers sanitize text
// fields beforehand. Write errors are sticky and surface from flush.
type lineWriter struct {
	bw      *bufio.Writer
	started bool
	scratch []byte
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{bw: bufio.NewWriter(w), scratch: make([]byte, 0, 32)}
}

// field appends one field, inserting the delimiter when needed.
func (l *lineWriter) field(s string) {
	if l.started {
		l.bw.WriteString(Delimiter)
	}
	l.bw.WriteString(s)
	l.started = true
}

// number appends a float in its shortest round-trip form.
func (l *lineWriter) number(v float32) {
	if l.started {
		l.bw.WriteString(Delimiter)
	}
	l.scratch = strconv.AppendFloat(l.scratch[:0], float64(v), 'g', -1, 32)
	l.bw.Write(l.scratch)
	l.started = true
}

// end terminates the current line.
func (l *lineWriter) end() {
	l.bw.WriteByte('\n')
	l.started = false
}

func (l *lineWriter) flush() error {
	return l.bw.Flush()
}
