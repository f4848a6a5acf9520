package buf

import (
	"bufio"
	"bytes"
	"errors"
)

type Frame struct {
	Delimiter []byte //分隔符,帧尾
	Max       int    //最大帧长度,0不限制,超出强制返回
}

// ReadMessage 按字节累积数据,读取到分隔符返回一帧数据,分隔符会被去除
// 累积超过最大帧长度强制返回,避免无分隔符的数据撑爆缓存
// 数据在流中的分段方式不影响分包结果
func (this *Frame) ReadMessage(buf *bufio.Reader) ([]byte, error) {
	if len(this.Delimiter) == 0 {
		return nil, errors.New("未设置分隔符")
	}
	result := []byte(nil)
	for {
		b, err := buf.ReadByte()
		if err != nil {
			return nil, err
		}
		result = append(result, b)

		//校验是否满足分隔符
		if bytes.HasSuffix(result, this.Delimiter) {
			return result[:len(result)-len(this.Delimiter)], nil
		}

		//数据超长,强制返回
		if this.Max > 0 && len(result) >= this.Max {
			return result, nil
		}
	}
}
