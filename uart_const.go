package uart

import "time"

const (
	B  = 1        //1B
	KB = 1024 * B //1KB

	DefaultBufferSize      = KB               //默认buff大小,1KB
	DefaultFrameSize       = 64 * KB          //默认最大帧长度,超出强制分包
	DefaultResponseTimeout = time.Second * 10 //默认响应超时时间
	DefaultRedialInterval  = time.Second      //默认重连间隔
	DefaultRedialMaxTime   = time.Second * 32 //默认最大尝试退避重连时间
)

var (
	DefaultDelimiter = []byte{0x0d} //默认分隔符 \r
	DefaultSuffix    = []byte{0x0a} //默认写入后缀 \n
)
