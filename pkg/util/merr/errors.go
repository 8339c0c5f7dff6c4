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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
//
// recoverable 为 true 的错误属于“告警后继续”：当前段提前结束或以缺省值替代，整个调用不中断。
var (
	// Format related
	ErrFormatUnknownCode    = newBinpackError("unknown format code", 100, false, WithErrorType(InputError))
	ErrFormatRepeatTooLarge = newBinpackError("repeat count too large", 101, true, WithErrorType(InputError))

	// Pack related
	ErrPackNotEnoughArgs   = newBinpackError("not enough arguments", 200, true, WithErrorType(InputError))
	ErrPackInvalidHexDigit = newBinpackError("non hex digit", 201, true, WithErrorType(InputError))
	ErrPackShortHexString  = newBinpackError("not enough characters in hex string", 202, true, WithErrorType(InputError))
	ErrPackValueCoercion   = newBinpackError("value cannot be converted", 203, true, WithErrorType(InputError))

	// Wildcard repeat combined with a segment that has no defined length.
	ErrWildcardIgnored = newBinpackError("wildcard repeat ignored", 250, true, WithErrorType(InputError))

	// Unpack related
	ErrUnpackUnexpectedEOF       = newBinpackError("unexpected end of input", 300, true)
	ErrUnpackPositionUnsupported = newBinpackError("'@' skip to position is unsupported on unpack", 301, false, WithErrorType(InputError))

	// IO related
	ErrIoFailed = newBinpackError("IO failed", 1001, false)

	// Parameter related
	ErrParameterInvalid = newBinpackError("invalid parameter", 1100, false, WithErrorType(InputError))
	ErrParameterMissing = newBinpackError("missing parameter", 1101, false, WithErrorType(InputError))

	// Frame related
	ErrFrameTooLarge = newBinpackError("frame too large", 1200, false)

	// Service related
	ErrServiceInternal = newBinpackError("service internal error", 5, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to binpackError
	errUnexpected = newBinpackError("unexpected error", (1<<16)-1, false)
)

type errorOption func(*binpackError)

func WithDetail(detail string) errorOption {
	return func(err *binpackError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *binpackError) {
		err.errType = etype
	}
}

type binpackError struct {
	name        string
	msg         string
	detail      string
	recoverable bool
	errCode     int32
	errType     ErrorType
}

func newBinpackError(msg string, code int32, recoverable bool, options ...errorOption) binpackError {
	err := binpackError{
		name:        msg,
		msg:         msg,
		detail:      msg,
		recoverable: recoverable,
		errCode:     code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e binpackError) code() int32 {
	return e.errCode
}

func (e binpackError) Error() string {
	return e.msg
}

func (e binpackError) Detail() string {
	return e.detail
}

func (e binpackError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(binpackError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
