package codec

import "strconv"

// Key 为 unpack 结果中的键，Name 为空时表示位置键。
type Key struct {
	Name  string
	Index int
}

// NameKey 返回命名键。规范十进制形式的名字（"0"、"12"，不含前导零和符号）
// 与同序号的位置键是同一个键，后写入的值覆盖先写入的值。
func NameKey(name string) Key {
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && strconv.Itoa(n) == name {
		return IndexKey(n)
	}
	return Key{Name: name}
}

func IndexKey(i int) Key {
	return Key{Index: i}
}

func (k Key) IsIndex() bool {
	return k.Name == ""
}

func (k Key) String() string {
	if k.IsIndex() {
		return strconv.Itoa(k.Index)
	}
	return k.Name
}

// canonical 将以字面量构造的 Key 归一为 NameKey 的形式。
func (k Key) canonical() Key {
	if k.IsIndex() {
		return k
	}
	return NameKey(k.Name)
}

// MarshalText 使 Key 可以作为 JSON 对象的键。
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// segmentKey 返回数值段第 j 次重复对应的键，pos 为当前的位置计数器。
func segmentKey(name string, repeat int, wildcard bool, j int, pos *int) Key {
	switch {
	case name == "":
		k := IndexKey(*pos)
		*pos++
		return k
	case repeat == 1 && !wildcard:
		return NameKey(name)
	default:
		return NameKey(name + strconv.Itoa(j))
	}
}

// blockKey 返回块类段（a/A/h/H）对应的键。
func blockKey(name string, pos *int) Key {
	if name == "" {
		k := IndexKey(*pos)
		*pos++
		return k
	}
	return NameKey(name)
}
