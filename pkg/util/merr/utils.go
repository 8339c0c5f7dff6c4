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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case binpackError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

// CodeName 返回错误码的稳定字符串形式，用于日志与监控标签。
func CodeName(err error) string {
	var be binpackError
	if errors.As(err, &be) {
		return strings.ReplaceAll(be.name, " ", "_")
	}
	return fmt.Sprintf("code_%d", Code(err))
}

// IsRecoverable 判断错误是否属于“告警后继续”的可恢复错误。
func IsRecoverable(err error) bool {
	var be binpackError
	if errors.As(err, &be) {
		return be.recoverable
	}
	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

func GetErrorType(err error) ErrorType {
	var be binpackError
	if errors.As(err, &be) {
		return be.errType
	}
	return SystemError
}

func WrapErrAsInputError(err error) error {
	if merr, ok := err.(binpackError); ok {
		WithErrorType(InputError)(&merr)
		return merr
	}
	return err
}

// Format 相关错误封装。
func WrapErrFormatUnknownCode(code byte, offset int, msg ...string) error {
	err := wrapFields(ErrFormatUnknownCode,
		value("code", fmt.Sprintf("%q", code)),
		value("offset", offset),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrFormatRepeatTooLarge(code byte, offset int, limit int, msg ...string) error {
	err := wrapFields(ErrFormatRepeatTooLarge,
		value("code", fmt.Sprintf("%q", code)),
		value("offset", offset),
		value("limit", limit),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Pack 相关错误封装。
func WrapErrPackNotEnoughArgs(code byte, consumed int, msg ...string) error {
	err := wrapFields(ErrPackNotEnoughArgs,
		value("code", fmt.Sprintf("%q", code)),
		value("consumed", consumed),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrPackInvalidHexDigit(digit rune, msg ...string) error {
	err := wrapFields(ErrPackInvalidHexDigit, value("digit", fmt.Sprintf("%q", digit)))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrPackShortHexString(length, expected int, msg ...string) error {
	err := wrapFields(ErrPackShortHexString,
		value("length", length),
		value("expected", expected),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrPackValueCoercion(v any, target string, cause error) error {
	err := wrapFields(ErrPackValueCoercion,
		value("type", fmt.Sprintf("%T", v)),
		value("target", target),
	)
	if cause != nil {
		err = errors.Wrap(err, cause.Error())
	}
	return err
}

func WrapErrWildcardIgnored(code byte, msg ...string) error {
	err := wrapFields(ErrWildcardIgnored, value("code", fmt.Sprintf("%q", code)))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Unpack 相关错误封装。
func WrapErrUnpackUnexpectedEOF(code byte, offset int64, want, got int, msg ...string) error {
	err := wrapFields(ErrUnpackUnexpectedEOF,
		value("code", fmt.Sprintf("%q", code)),
		value("offset", offset),
		value("want", want),
		value("got", got),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrUnpackPositionUnsupported(position int, msg ...string) error {
	err := wrapFields(ErrUnpackPositionUnsupported, value("position", position))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// IO 相关错误封装。
func WrapErrIoFailed(key string, err error) error {
	if err == nil {
		return nil
	}
	return wrapFieldsWithDesc(ErrIoFailed, err.Error(), value("key", key))
}

// 参数相关错误封装。
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidRange[T any](lower, upper, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		bound("value", actual, lower, upper),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterMissing[T any](param T, msg ...string) error {
	err := wrapFields(ErrParameterMissing,
		value("missing_param", param),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Frame 相关错误封装。
func WrapErrFrameTooLarge(size, limit uint32, msg ...string) error {
	err := wrapFields(ErrFrameTooLarge,
		value("size", size),
		value("limit", limit),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrServiceInternal(reason string, msg ...string) error {
	err := wrapFieldsWithDesc(ErrServiceInternal, reason)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err binpackError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err binpackError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}
