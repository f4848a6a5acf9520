package uart

import (
	"errors"
	"io"
	"strings"
)

var (
	ErrHandClose       = errors.New("主动关闭")
	ErrRemoteClose     = errors.New("远程端主动关闭连接")
	ErrNotConnected    = errors.New("未连接")
	ErrConnectionLost  = errors.New("连接已断开")
	ErrBusy            = errors.New("请求繁忙,已存在等待响应的请求")
	ErrWithTimeout     = errors.New("超时")
	ErrInvalidDialFunc = errors.New("无效连接函数")
	ErrInvalidReadFunc = errors.New("无效数据读取函数")
	ErrUseReadMessage  = errors.New("无效,请使用ReadMessage")
)

// dealErr 错误处理,常见整理成中文
func dealErr(err error) error {
	if err != nil {
		s := err.Error()
		if err == io.EOF {
			return ErrRemoteClose
		} else if strings.Contains(s, "use of closed network connection") {
			return ErrConnectionLost
		} else if strings.Contains(s, "file already closed") {
			return ErrConnectionLost
		} else if strings.Contains(s, "An existing connection was forcibly closed by the remote host") {
			return ErrRemoteClose
		}
	}
	return err
}
