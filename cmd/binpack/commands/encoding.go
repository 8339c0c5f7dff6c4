package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lk2023060901/binpack-go/internal/framer"
)

// Encoding 为命令行上二进制数据的文本表示。
type Encoding string

const (
	EncodingRaw    Encoding = "raw"
	EncodingHex    Encoding = "hex"
	EncodingBase64 Encoding = "base64"
)

// ParseEncoding parses an encoding name (raw|hex|base64).
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(s)); e {
	case EncodingRaw, EncodingHex, EncodingBase64:
		return e, nil
	default:
		return "", fmt.Errorf("invalid encoding %q (valid: raw, hex, base64)", s)
	}
}

func (e Encoding) encode(data []byte) []byte {
	switch e {
	case EncodingHex:
		return []byte(hex.EncodeToString(data) + "\n")
	case EncodingBase64:
		return []byte(base64.StdEncoding.EncodeToString(data) + "\n")
	default:
		return data
	}
}

func (e Encoding) decode(data []byte) ([]byte, error) {
	switch e {
	case EncodingHex:
		return hex.DecodeString(string(bytes.TrimSpace(data)))
	case EncodingBase64:
		return base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
	default:
		return data, nil
	}
}

// openInput 返回 path 对应的文件，path 为空或 "-" 时使用命令的标准输入。
func openInput(stdin io.Reader, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w", path, err)
	}
	return f, nil
}

// splitRecords 将输入切分为独立记录：framed 时按长度前缀帧读取，
// 否则按 size 定长切分，最后一条记录可以不足 size。
func splitRecords(data []byte, size int, framed bool) ([][]byte, error) {
	if framed {
		f := framer.NewLengthPrefixedFramer(framer.DefaultMaxFrameSize)
		r := bytes.NewReader(data)
		var records [][]byte
		for {
			payload, err := f.ReadFrame(r)
			if err == io.EOF {
				return records, nil
			}
			if err != nil {
				return records, err
			}
			records = append(records, payload)
		}
	}

	if size <= 0 {
		return nil, fmt.Errorf("record size must be positive, got %d", size)
	}
	records := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		records = append(records, data[start:end])
	}
	return records, nil
}
