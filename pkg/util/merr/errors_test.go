// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"context"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrPackNotEnoughArgs('N', 2)
	errors.Wrap(err, "failed to pack")
	s.ErrorIs(err, ErrPackNotEnoughArgs)
	s.Equal(Code(ErrPackNotEnoughArgs), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))
	s.Equal(errUnexpected.errCode, Code(io.EOF))

	sameCodeErr := newBinpackError("new error", ErrPackNotEnoughArgs.errCode, false)
	s.True(sameCodeErr.Is(ErrPackNotEnoughArgs))
}

func (s *ErrSuite) TestRecoverable() {
	s.True(IsRecoverable(WrapErrPackNotEnoughArgs('a', 0)))
	s.True(IsRecoverable(WrapErrPackInvalidHexDigit('z')))
	s.True(IsRecoverable(WrapErrUnpackUnexpectedEOF('N', 3, 4, 1)))
	s.True(IsRecoverable(errors.Wrap(WrapErrWildcardIgnored('x'), "pack")))
	s.False(IsRecoverable(WrapErrUnpackPositionUnsupported(4)))
	s.False(IsRecoverable(WrapErrIoFailed("stdin", io.ErrClosedPipe)))
	s.False(IsRecoverable(io.EOF))
}

func (s *ErrSuite) TestCodeName() {
	s.Equal("not_enough_arguments", CodeName(WrapErrPackNotEnoughArgs('N', 2)))
	s.Equal("non_hex_digit", CodeName(errors.Wrap(WrapErrPackInvalidHexDigit('g'), "H4")))
	s.Equal("code_65535", CodeName(io.EOF))
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(ErrFormatUnknownCode))
	s.Equal(SystemError, GetErrorType(ErrIoFailed))
	s.Equal(SystemError, GetErrorType(io.EOF))
	s.Equal(InputError, GetErrorType(WrapErrAsInputError(ErrServiceInternal)))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestWrap() {
	// Format 相关错误。
	s.ErrorIs(WrapErrFormatUnknownCode('Q', 3), ErrFormatUnknownCode)
	s.ErrorIs(WrapErrFormatRepeatTooLarge('x', 0, 1<<20), ErrFormatRepeatTooLarge)

	// Pack 相关错误。
	s.ErrorIs(WrapErrPackNotEnoughArgs('a', 0, "a: not enough arguments"), ErrPackNotEnoughArgs)
	s.ErrorIs(WrapErrPackInvalidHexDigit('g'), ErrPackInvalidHexDigit)
	s.ErrorIs(WrapErrPackShortHexString(3, 4), ErrPackShortHexString)
	s.ErrorIs(WrapErrPackValueCoercion(struct{}{}, "int64", errors.New("unable to cast")), ErrPackValueCoercion)
	s.ErrorIs(WrapErrWildcardIgnored('@'), ErrWildcardIgnored)

	// Unpack 相关错误。
	s.ErrorIs(WrapErrUnpackUnexpectedEOF('V', 2, 4, 2), ErrUnpackUnexpectedEOF)
	s.ErrorIs(WrapErrUnpackPositionUnsupported(8), ErrUnpackPositionUnsupported)

	// IO 相关错误。
	s.ErrorIs(WrapErrIoFailed("stdin", io.ErrUnexpectedEOF), ErrIoFailed)
	s.NoError(WrapErrIoFailed("stdin", nil))

	// 参数相关错误。
	s.ErrorIs(WrapErrParameterInvalid(8, 1, "cache size"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidRange(1, 1<<16, 0, "workers should be in range"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("format", "no format given"), ErrParameterMissing)

	s.ErrorIs(WrapErrFrameTooLarge(1<<25, 1<<24), ErrFrameTooLarge)
	s.ErrorIs(WrapErrServiceInternal("never throw out"), ErrServiceInternal)
}

func (s *ErrSuite) TestWrapMessage() {
	err := WrapErrPackShortHexString(3, 4)
	s.Equal("not enough characters in hex string[length=3][expected=4]", err.Error())

	err = WrapErrIoFailed("stdin", io.ErrUnexpectedEOF)
	s.Equal("IO failed[key=stdin]: unexpected EOF", err.Error())
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func (s *ErrSuite) TestCombineCode() {
	err := Combine(WrapErrPackNotEnoughArgs('N', 1), WrapErrFormatUnknownCode('Q', 1))
	s.Equal(Code(ErrFormatUnknownCode), Code(err))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
