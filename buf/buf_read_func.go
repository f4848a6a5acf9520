package buf

import (
	"bufio"
)

type (
	ReadFunc  func(buf *bufio.Reader) (bytes []byte, err error)
	WriteFunc func(req []byte) []byte
)

// ReadWithAll 读取全部数据,不分包
func ReadWithAll(buf *bufio.Reader) (bytes []byte, err error) {
	//read,单次读取大小不影响速度
	num := 4096
	for {
		data := make([]byte, num)
		length, err := buf.Read(data)
		if err != nil {
			return nil, err
		}
		bytes = append(bytes, data[:length]...)
		if length < num || buf.Buffered() == 0 {
			//缓存没有剩余的数据
			return bytes, err
		}
	}
}

// NewReadWithDelimiter 新建buf.Reader,根据分隔符分包,分隔符会被去除
func NewReadWithDelimiter(delimiter []byte) ReadFunc {
	f := &Frame{Delimiter: delimiter}
	return f.ReadMessage
}

// NewReadWithFrame 根据Frame配置读取数据
func NewReadWithFrame(f *Frame) ReadFunc {
	return f.ReadMessage
}

// NewWriteWithSuffix 新建buf.Writer,写入数据自动加后缀
func NewWriteWithSuffix(suffix []byte) WriteFunc {
	return func(req []byte) []byte {
		return append(req, suffix...)
	}
}
