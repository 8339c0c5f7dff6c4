package codec

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/binpack-go/internal/binpack/format"
	"github.com/lk2023060901/binpack-go/pkg/metrics"
	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

// Reader 为 unpack 的输入游标，记录已读取的字节数。
// 读取按段进行，不做预读，因此同一个 io.Reader 可以依次交给多次 Unpack。
type Reader struct {
	r      io.Reader
	offset int64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset 返回已读取的字节数。
func (r *Reader) Offset() int64 {
	return r.offset
}

// readFull 读取 n 个字节，输入提前结束时返回实际读到的部分，其余错误视为致命。
func (r *Reader) readFull(buf []byte) (int, error) {
	n, err := io.ReadFull(r.r, buf)
	r.offset += int64(n)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, merr.WrapErrIoFailed("input", err)
}

// readUpTo 读取至多 n 个字节，n < 0 表示读到输入结束。
func (r *Reader) readUpTo(n int) ([]byte, error) {
	src := r.r
	if n >= 0 {
		src = io.LimitReader(r.r, int64(n))
	}
	data, err := io.ReadAll(src)
	r.offset += int64(len(data))
	return data, merr.WrapErrIoFailed("input", err)
}

// skip 丢弃至多 n 个字节，n < 0 表示丢弃到输入结束。
func (r *Reader) skip(n int) (int64, error) {
	var (
		got int64
		err error
	)
	if n < 0 {
		got, err = io.Copy(io.Discard, r.r)
	} else {
		got, err = io.CopyN(io.Discard, r.r, int64(n))
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	r.offset += got
	return got, merr.WrapErrIoFailed("input", err)
}

// Unpack 按程序从 src 读取并解码，返回有序结果。
//
// 输入提前结束时缺失的字节按 0 读取，每个受影响的段上报一次 ErrUnpackUnexpectedEOF 告警；
// a/A/h/H 只保留实际读到的字节，通配的数值段在重复边界处正常结束。
func Unpack(ctx context.Context, prog *format.Program, src io.Reader, opts Options) (*Values, error) {
	r := newRun(ctx, metrics.UnpackLabel, opts)
	reader, ok := src.(*Reader)
	if !ok {
		reader = NewReader(src)
	}
	start := reader.Offset()
	values, err := r.unpack(prog, reader)
	r.done(int(reader.Offset()-start), err)
	return values, err
}

func (r *run) unpack(prog *format.Program, reader *Reader) (*Values, error) {
	values := NewValues()
	if err := r.check(prog, format.Unpack); err != nil {
		return values, err
	}

	pos := 0
	for i := 0; i < prog.Len(); i++ {
		if err := r.ctx.Err(); err != nil {
			return values, err
		}
		seg := prog.At(i)
		if err := UnpackSegment(seg, reader, values, &pos, r.warner(i, seg)); err != nil {
			return values, err
		}
	}
	return values, nil
}

// UnpackSegment 执行单个段的 unpack，结果写入 values，pos 为位置键计数器。
func UnpackSegment(seg format.Segment, reader *Reader, values *Values, pos *int, warn WarnFunc) error {
	switch seg.Kind {
	case format.KindNulBlock, format.KindSpaceBlock:
		return unpackBlock(seg, reader, values, pos, warn)
	case format.KindHexLow, format.KindHexHigh:
		return unpackHex(seg, reader, values, pos, warn)
	case format.KindIntBE, format.KindIntLE, format.KindDouble, format.KindFloat:
		return unpackNumeric(seg, reader, values, pos, warn)
	case format.KindNullFill:
		want := repeatOrRest(seg)
		start := reader.Offset()
		got, err := reader.skip(want)
		if err != nil {
			return err
		}
		if want >= 0 && got < int64(want) {
			return warn(merr.WrapErrUnpackUnexpectedEOF(seg.Code, start, want, int(got)))
		}
		return nil
	case format.KindPosition:
		return merr.WrapErrUnpackPositionUnsupported(seg.Repeat.Count())
	default:
		return merr.WrapErrServiceInternal("unexpected segment kind " + seg.Kind.String())
	}
}

func unpackBlock(seg format.Segment, reader *Reader, values *Values, pos *int, warn WarnFunc) error {
	want := repeatOrRest(seg)
	start := reader.Offset()
	data, err := reader.readUpTo(want)
	if err != nil {
		return err
	}
	pad := seg.Kind.Pad()
	end := len(data)
	for end > 0 && data[end-1] == pad {
		end--
	}
	values.Set(blockKey(seg.Name, pos), data[:end])
	if want >= 0 && len(data) < want {
		return warn(merr.WrapErrUnpackUnexpectedEOF(seg.Code, start, want, len(data)))
	}
	return nil
}

func unpackHex(seg format.Segment, reader *Reader, values *Values, pos *int, warn WarnFunc) error {
	want := repeatOrRest(seg)
	if want > 0 {
		want /= 2
	}
	start := reader.Offset()
	data, err := reader.readUpTo(want)
	if err != nil {
		return err
	}
	if seg.Kind == format.KindHexLow {
		swapped := make([]byte, len(data))
		for j, b := range data {
			swapped[j] = b<<4 | b>>4
		}
		data = swapped
	}
	values.Set(blockKey(seg.Name, pos), hex.EncodeToString(data))
	if want >= 0 && len(data) < want {
		return warn(merr.WrapErrUnpackUnexpectedEOF(seg.Code, start, want, len(data)))
	}
	return nil
}

func unpackNumeric(seg format.Segment, reader *Reader, values *Values, pos *int, warn WarnFunc) error {
	wildcard := seg.Repeat.Wildcard()
	count := seg.Repeat.Count()
	buf := make([]byte, seg.Width)
	short := false

	for j := 0; wildcard || j < count; j++ {
		start := reader.Offset()
		got, err := reader.readFull(buf)
		if err != nil {
			return err
		}
		if wildcard && got == 0 {
			return nil
		}
		if got < len(buf) {
			clear(buf[got:])
		}
		values.Set(segmentKey(seg.Name, count, wildcard, j, pos), decodeNumeric(seg, buf))

		if got < len(buf) && !short {
			short = true
			if err := warn(merr.WrapErrUnpackUnexpectedEOF(seg.Code, start, len(buf), got)); err != nil {
				return err
			}
		}
		if wildcard && got < len(buf) {
			return nil
		}
	}
	return nil
}

// decodeNumeric 解码一次重复的字节，有符号的 1/2/4 字节整数按补码做符号扩展。
func decodeNumeric(seg format.Segment, buf []byte) any {
	switch seg.Kind {
	case format.KindDouble:
		return math.Float64frombits(binary.BigEndian.Uint64(buf))
	case format.KindFloat:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(buf)))
	}

	var order binary.ByteOrder = binary.BigEndian
	if seg.Kind == format.KindIntLE {
		order = binary.LittleEndian
	}
	switch seg.Width {
	case 1:
		if seg.Signed {
			return int64(int8(buf[0]))
		}
		return int64(buf[0])
	case 2:
		v := order.Uint16(buf)
		if seg.Signed {
			return int64(int16(v))
		}
		return int64(v)
	case 4:
		v := order.Uint32(buf)
		if seg.Signed {
			return int64(int32(v))
		}
		return int64(v)
	default:
		return order.Uint64(buf)
	}
}

// repeatOrRest 返回段要读取的字节数，通配时返回 -1 表示读到输入结束。
func repeatOrRest(seg format.Segment) int {
	if seg.Repeat.Wildcard() {
		return -1
	}
	return seg.Repeat.Count()
}

var _ io.Reader = (*Reader)(nil)

// Read 使 Reader 本身也是 io.Reader，便于嵌套使用。
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.offset += int64(n)
	return n, err
}
