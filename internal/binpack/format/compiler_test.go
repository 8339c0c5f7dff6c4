package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/binpack-go/pkg/util/merr"
)

type CompilerSuite struct {
	suite.Suite
}

func (s *CompilerSuite) TestKindMapping() {
	cases := []struct {
		code   byte
		kind   Kind
		width  int
		signed bool
	}{
		{'a', KindNulBlock, 0, false},
		{'A', KindSpaceBlock, 0, false},
		{'h', KindHexLow, 0, false},
		{'H', KindHexHigh, 0, false},
		{'c', KindIntBE, 1, true},
		{'C', KindIntBE, 1, false},
		{'s', KindIntBE, 2, true},
		{'n', KindIntBE, 2, false},
		{'S', KindIntBE, 2, false},
		{'v', KindIntLE, 2, false},
		{'l', KindIntBE, 4, true},
		{'N', KindIntBE, 4, false},
		{'L', KindIntBE, 4, false},
		{'V', KindIntLE, 4, false},
		{'i', KindIntBE, 8, false},
		{'I', KindIntBE, 8, false},
		{'d', KindDouble, 8, false},
		{'f', KindFloat, 4, false},
		{'x', KindNullFill, 0, false},
		{'@', KindPosition, 0, false},
	}
	for _, c := range cases {
		p := Compile(string(c.code), Unpack)
		s.Require().Equal(1, p.Len(), string(c.code))
		seg := p.At(0)
		s.Equal(c.code, seg.Code)
		s.Equal(c.kind, seg.Kind, string(c.code))
		s.Equal(c.width, seg.Width, string(c.code))
		s.Equal(c.signed, seg.Signed, string(c.code))
		s.Equal(Repeat(1), seg.Repeat)
	}
}

func (s *CompilerSuite) TestPackModeIsUnsigned() {
	p := Compile("cslC", Pack)
	for _, seg := range p.Segments() {
		s.False(seg.Signed)
	}
}

func (s *CompilerSuite) TestRepeat() {
	p := Compile("a5N*x0C", Pack)
	s.Require().Equal(4, p.Len())
	s.Equal(Repeat(5), p.At(0).Repeat)
	s.True(p.At(1).Repeat.Wildcard())
	s.Equal(0, p.At(1).Repeat.Count())
	s.Equal(Repeat(0), p.At(2).Repeat)
	s.Equal(Repeat(1), p.At(3).Repeat)
}

func (s *CompilerSuite) TestRepeatTooLarge() {
	p := Compile("x99999999999999999999", Pack)
	s.Require().Equal(1, p.Len())
	s.Equal(Repeat(MaxRepeat), p.At(0).Repeat)
	s.ErrorIs(p.Strict(), merr.ErrFormatRepeatTooLarge)
}

func (s *CompilerSuite) TestUnpackNames() {
	p := Compile("Cversion/n2len/a*body", Unpack)
	s.Require().Equal(3, p.Len())
	s.Equal("version", p.At(0).Name)
	s.Equal("len", p.At(1).Name)
	s.Equal(Repeat(2), p.At(1).Repeat)
	s.Equal("body", p.At(2).Name)
	s.True(p.At(2).Repeat.Wildcard())
}

func (s *CompilerSuite) TestPackIgnoresNames() {
	// pack 模式下没有字段名，'/' 和字母都作为未知字符被丢弃。
	p := Compile("C/Q2N", Pack)
	s.Require().Equal(2, p.Len())
	s.Equal(byte('C'), p.At(0).Code)
	s.Equal(byte('N'), p.At(1).Code)

	dropped := p.Dropped()
	s.Require().Len(dropped, 2)
	s.Equal(DroppedCode{Offset: 1, Code: '/', Text: "/"}, dropped[0])
	s.Equal(DroppedCode{Offset: 2, Code: 'Q', Text: "Q2"}, dropped[1])
}

func (s *CompilerSuite) TestUnknownCodesDropped() {
	p := Compile("CzN", Pack)
	s.Equal(2, p.Len())
	s.Len(p.Issues(), 1)
	s.ErrorIs(p.Strict(), merr.ErrFormatUnknownCode)

	_, err := CompileStrict("CzN", Pack)
	s.ErrorIs(err, merr.ErrFormatUnknownCode)
	s.False(merr.IsRecoverable(err))

	p, err = CompileStrict("CN", Pack)
	s.NoError(err)
	s.Equal(2, p.Len())
}

func (s *CompilerSuite) TestEmpty() {
	p, err := CompileStrict("", Unpack)
	s.NoError(err)
	s.Equal(0, p.Len())
	s.Equal("", p.String())
}

func (s *CompilerSuite) TestDeterministic() {
	const f = "a4h3H*c2Nv/dfx2@8"
	s.Equal(Compile(f, Pack).Segments(), Compile(f, Pack).Segments())
}

func (s *CompilerSuite) TestSegmentsAreCopies() {
	p := Compile("N2", Pack)
	segs := p.Segments()
	segs[0].Repeat = 9
	s.Equal(Repeat(2), p.At(0).Repeat)
}

func (s *CompilerSuite) TestString() {
	s.Equal("a4N*Cx2", Compile("a4N*Cx2", Pack).String())
	s.Equal("Cver/n2len/a*", Compile("C1ver/n2len/a*", Unpack).String())
	s.Equal("a1*x", Compile("a1*x", Unpack).String())
}

func TestCompiler(t *testing.T) {
	suite.Run(t, new(CompilerSuite))
}

func TestModeAndKindString(t *testing.T) {
	assert.Equal(t, "pack", Pack.String())
	assert.Equal(t, "unpack", Unpack.String())
	assert.Equal(t, "hex-high", KindHexHigh.String())
	assert.Equal(t, "*", ConsumeRemaining.String())
	require.Equal(t, byte(' '), KindSpaceBlock.Pad())
	require.Equal(t, byte(0), KindNulBlock.Pad())
	assert.True(t, KindHexLow.IsBlock())
	assert.True(t, KindFloat.IsNumeric())
	assert.False(t, KindPosition.IsNumeric())
}
