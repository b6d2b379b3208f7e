// Package scratch formats short-lived strings into a reusable byte buffer.
// Strings it returns share the buffer's memory and stay valid until the
// next Reset; the UI resets its buffer at the start of every frame, after
// the previous frame's text has been tessellated.
package scratch

import (
	"strconv"
	"unicode/utf8"
	"unsafe"
)

// Buffer is not safe for concurrent use.
type Buffer struct {
	buf []byte
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// Reset drops the contents but keeps the memory. Strings returned before
// Reset must no longer be used.
func (b *Buffer) Reset() { b.buf = b.buf[:0] }

func (b *Buffer) Len() int { return len(b.buf) }
func (b *Buffer) Cap() int { return cap(b.buf) }

// Mark bookmarks the current end. Pair with View.
func (b *Buffer) Mark() int { return len(b.buf) }

// View returns the bytes written since mark as a string without copying.
// Appending past the capacity moves later writes to new memory, so views
// taken earlier remain intact.
func (b *Buffer) View(mark int) string {
	s := b.buf[mark:]
	if len(s) == 0 {
		return ""
	}
	return unsafe.String(&s[0], len(s))
}

func (b *Buffer) S(s string) *Buffer {
	b.buf = append(b.buf, s...)
	return b
}

func (b *Buffer) R(r rune) *Buffer {
	b.buf = utf8.AppendRune(b.buf, r)
	return b
}

func (b *Buffer) I(v int) *Buffer {
	b.buf = strconv.AppendInt(b.buf, int64(v), 10)
	return b
}

func (b *Buffer) U(v uint64) *Buffer {
	b.buf = strconv.AppendUint(b.buf, v, 10)
	return b
}

// F64 appends v with prec digits after the decimal point.
func (b *Buffer) F64(v float64, prec int) *Buffer {
	b.buf = strconv.AppendFloat(b.buf, v, 'f', prec, 64)
	return b
}

func (b *Buffer) Bool(v bool) *Buffer {
	b.buf = strconv.AppendBool(b.buf, v)
	return b
}

// Sprintf supports %s %d %f (with optional .prec, default 3), %v for the
// same types, and %%. Unknown verbs are written literally; missing
// arguments end formatting.
func (b *Buffer) Sprintf(format string, args ...any) string {
	mark := b.Mark()
	ai := 0
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			b.buf = append(b.buf, ch)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.buf = append(b.buf, '%')
			i++
			continue
		}
		i++
		prec := 3
		if i < len(format) && format[i] == '.' {
			i++
			start := i
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
			prec, _ = strconv.Atoi(format[start:i])
		}
		if i >= len(format) || ai >= len(args) {
			break
		}
		switch format[i] {
		case 's', 'd', 'f', 'v':
			b.arg(args[ai], prec)
		default:
			b.buf = append(b.buf, '%', format[i])
		}
		ai++
	}
	return b.View(mark)
}

func (b *Buffer) arg(v any, prec int) {
	switch x := v.(type) {
	case string:
		b.S(x)
	case []byte:
		b.buf = append(b.buf, x...)
	case int:
		b.I(x)
	case int32:
		b.I(int(x))
	case int64:
		b.buf = strconv.AppendInt(b.buf, x, 10)
	case uint:
		b.U(uint64(x))
	case uint32:
		b.U(uint64(x))
	case uint64:
		b.U(x)
	case float32:
		b.F64(float64(x), prec)
	case float64:
		b.F64(x, prec)
	case bool:
		b.Bool(x)
	default:
		b.S("<?>")
	}
}
