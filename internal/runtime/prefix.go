package runtime

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/heroku/color"
)

// Prefix colour for relayed container output.
var prefixStyle = color.New(color.FgCyan)

// Buffering writer that prefixes each line with "[name] ".
//
// Partial lines are held until their newline arrives or the writer is
// closed.
type prefixWriter struct {
	out    io.Writer     // Destination.
	buf    *bytes.Buffer // Incomplete trailing line.
	prefix string        // Rendered prefix, including the trailing space.
}

func newPrefixWriter(w io.Writer, name string) *prefixWriter {
	return &prefixWriter{
		out:    w,
		buf:    &bytes.Buffer{},
		prefix: fmt.Sprintf("[%s] ", prefixStyle.Sprint(name)),
	}
}

func (w *prefixWriter) Write(data []byte) (int, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Split(scanLinesKeepNewline)
	for scanner.Scan() {
		bits := scanner.Bytes()
		if len(bits) == 0 {
			continue
		}
		if bits[len(bits)-1] != '\n' {
			w.buf.Write(bits)
			continue
		}

		line := bits
		if w.buf.Len() > 0 {
			line = append(w.buf.Bytes(), bits...)
			w.buf.Reset()
		}
		if err := w.writeLine(line); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

// Writes any pending partial line.
func (w *prefixWriter) Close() error {
	defer w.buf.Reset()
	if w.buf.Len() == 0 {
		return nil
	}
	return w.writeLine(w.buf.Bytes())
}

func (w *prefixWriter) writeLine(line []byte) error {
	_, err := io.WriteString(w.out, w.prefix+string(line))
	return err
}

// Like bufio.ScanLines, but keeps the newline and drops a preceding "\r".
func scanLinesKeepNewline(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, append(bytes.TrimSuffix(data[:i], []byte{'\r'}), '\n'), nil
	}
	if atEOF {
		return len(data), bytes.TrimSuffix(data, []byte{'\r'}), nil
	}
	return 0, nil, nil
}
