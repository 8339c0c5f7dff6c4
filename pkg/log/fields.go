package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNameOperation = "op"
	FieldNameFormat    = "format"
	FieldNameSegment   = "segment"
	FieldNameCode      = "code"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldOperation 返回编解码操作名（pack / unpack）字段。
func FieldOperation(op string) zap.Field {
	return zap.String(FieldNameOperation, op)
}

// FieldFormat 返回格式串字段。
func FieldFormat(format string) zap.Field {
	return zap.String(FieldNameFormat, format)
}

// FieldSegment 返回段序号字段。
func FieldSegment(index int) zap.Field {
	return zap.Int(FieldNameSegment, index)
}

// FieldCode 返回告警或错误码名称字段。
func FieldCode(code string) zap.Field {
	return zap.String(FieldNameCode, code)
}
