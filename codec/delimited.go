package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxLineSize is the longest line a Reader accepts.
const MaxLineSize = 16 << 20

// FieldError reports a field that is not a number.
type FieldError struct {
	Line  int
	Field int
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d field %d: not a number: %q", e.Line, e.Field, e.Value)
}

// ParseField parses a field the way C's atof does: leading and trailing
// whitespace is ignored and the longest numeric prefix is used, so "3.5kg"
// yields 3.5 and "n/a" yields 0. ok is false unless the whole field is a number.
func ParseField(s string) (v float64, ok bool) {
	t := strings.TrimSpace(s)
	v, err := strconv.ParseFloat(t, 64)
	if err == nil {
		return v, true
	}
	if errors.Is(err, strconv.ErrRange) {
		// ParseFloat already returns ±Inf or 0 here, which is what atof gives.
		return v, true
	}

	n := numericPrefix(t)
	if n == 0 {
		return 0, false
	}
	v, err = strconv.ParseFloat(t[:n], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, false
}

// numericPrefix returns the length of the longest prefix of s that is a
// decimal floating point literal: [+-] digits [. digits] [(e|E) [+-] digits].
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > exp {
			i = j
		}
	}

	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Reader reads points from delimited text.
//
// Blank and whitespace-only lines are skipped. A trailing delimiter does not
// produce an extra field, so "1,2," reads as two coordinates.
type Reader struct {
	// Strict makes Read fail with a *FieldError on a field that is not a
	// number instead of substituting the atof value.
	Strict bool

	s     *bufio.Scanner
	delim string
	line  int
}

// NewReader returns a Reader splitting fields on delim.
func NewReader(r io.Reader, delim rune) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Reader{s: s, delim: string(delim)}
}

// Read returns the next point or io.EOF.
func (r *Reader) Read() ([]float64, error) {
	for r.s.Scan() {
		r.line++
		line := r.s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, r.delim)
		if n := len(fields); n > 1 && fields[n-1] == "" {
			fields = fields[:n-1]
		}

		p := make([]float64, len(fields))
		for i, f := range fields {
			v, ok := ParseField(f)
			if !ok && r.Strict {
				return nil, &FieldError{Line: r.line, Field: i + 1, Value: f}
			}
			p[i] = v
		}
		return p, nil
	}
	if err := r.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// ReadAll reads all remaining points.
func (r *Reader) ReadAll() ([][]float64, error) {
	var points [][]float64
	for {
		p, err := r.Read()
		if err == io.EOF {
			return points, nil
		}
		if err != nil {
			return points, err
		}
		points = append(points, p)
	}
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int { return r.line }

// FormatRow joins the coordinates of p with delim using the shortest
// representation that round-trips.
func FormatRow(p []float64, delim rune) string {
	var b strings.Builder
	appendRow(&b, p, delim)
	return b.String()
}

func appendRow(b *strings.Builder, p []float64, delim rune) {
	var buf [32]byte
	for i, v := range p {
		if i > 0 {
			b.WriteRune(delim)
		}
		b.Write(strconv.AppendFloat(buf[:0], v, 'g', -1, 64))
	}
}

// Writer writes points as delimited text.
type Writer struct {
	w     *bufio.Writer
	delim rune
	rows  int
}

// NewWriter returns a Writer joining coordinates with delim.
func NewWriter(w io.Writer, delim rune) *Writer {
	return &Writer{w: bufio.NewWriter(w), delim: delim}
}

// WriteRow writes one point. Rows are separated by a newline; no newline
// follows the last row.
func (w *Writer) WriteRow(p []float64) error {
	return w.WriteLine(FormatRow(p, w.delim))
}

// WriteLine writes a raw line using the same separation rule as WriteRow.
func (w *Writer) WriteLine(s string) error {
	if w.rows > 0 {
		if err := w.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	w.rows++
	_, err := w.w.WriteString(s)
	return err
}

// WriteRows writes all rows.
func (w *Writer) WriteRows(rows [][]float64) error {
	for _, p := range rows {
		if err := w.WriteRow(p); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }
