package fitfile

import "fmt"

// reader is a forward-only cursor over the data section of a FIT file.
type reader struct {
	buf  []byte
	pos  int
	base int // file offset of buf[0], for error messages
}

func newReader(buf []byte, base int) *reader {
	return &reader{buf: buf, base: base}
}

func (r *reader) done() bool {
	return r.pos >= len(r.buf)
}

func (r *reader) offset() int {
	return r.base + r.pos
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("unexpected end of data at byte %d", r.offset())
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("need %d bytes at byte %d, have %d", n, r.offset(), len(r.buf)-r.pos)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) skip(n int) error {
	_, err := r.next(n)
	return err
}
