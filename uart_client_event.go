package uart

import (
	"context"
	"github.com/injoyai/base/chans"
	"github.com/injoyai/uart/buf"
	"time"
)

// OnConnect 连接成功事件,错误会断开连接
func (this *Client) OnConnect(f func(c *Client) error) *Client {
	return this.SetConnectFunc(f)
}

// OnDisconnect 断开连接事件
func (this *Client) OnDisconnect(f func(c *Client, err error)) *Client {
	return this.SetCloseFunc(f)
}

// OnMessage 设备消息事件,只分发message类型的事件
func (this *Client) OnMessage(f func(c *Client, content string)) *Client {
	return this.SetDealFunc(func(c *Client, e *Event) {
		if e.IsMessage() {
			f(c, e.Content)
		}
	})
}

//================================Option================================

// SetOptions 设置选项
func (this *Client) SetOptions(options ...Option) *Client {
	for _, v := range options {
		v(this)
	}
	return this
}

//================================Logger================================

// Debug 调试模式,打印日志
func (this *Client) Debug(b ...bool) *Client {
	this.logger.Debug(b...)
	return this
}

// SetLogger 设置日志
func (this *Client) SetLogger(l Logger) *Client {
	this.logger = newLogger(l)
	return this
}

// SetLevel 设置日志等级
func (this *Client) SetLevel(level Level) *Client {
	this.logger.SetLevel(level)
	return this
}

// SetPrintWithHEX 设置打印HEX
func (this *Client) SetPrintWithHEX() *Client {
	this.logger.SetPrintWithHEX()
	return this
}

// SetPrintWithASCII 设置打印ASCII
func (this *Client) SetPrintWithASCII() *Client {
	this.logger.SetPrintWithASCII()
	return this
}

//================================ReadFunc================================

// SetReadFunc 设置读取函数,后台循环执行(在使用Run之后),从字节流中截取一帧数据
func (this *Client) SetReadFunc(fn buf.ReadFunc) *Client {
	this.readFunc = fn
	return this
}

// SetDelimiter 设置消息分隔符,读取到分隔符返回一帧数据,分隔符会被去除
func (this *Client) SetDelimiter(delimiter []byte) *Client {
	this.delimiter = delimiter
	return this.SetReadFunc(buf.NewReadWithFrame(&buf.Frame{
		Delimiter: delimiter,
		Max:       this.frameSize,
	}))
}

// SetFrameSize 设置最大帧长度,超出强制分包,避免无分隔符的数据撑爆缓存
func (this *Client) SetFrameSize(n int) *Client {
	this.frameSize = n
	return this.SetDelimiter(this.delimiter)
}

// SetReadWithAll 设置一次性读取全部数据,不分包
func (this *Client) SetReadWithAll() *Client {
	return this.SetReadFunc(buf.ReadWithAll)
}

//================================WriteFunc================================

// SetWriteFunc 设置写入函数,封装数据包
func (this *Client) SetWriteFunc(fn func(p []byte) []byte) *Client {
	this.writeFunc = fn
	return this
}

// SetSuffix 设置写入后缀,请求会自动加上后缀
func (this *Client) SetSuffix(suffix []byte) *Client {
	return this.SetWriteFunc(func(p []byte) []byte {
		return append(p, suffix...)
	})
}

// SetWriteWithNil 取消写入函数
func (this *Client) SetWriteWithNil() *Client {
	this.writeFunc = nil
	return this
}

//================================Timeout================================

// SetTimeout 设置默认响应超时时间
func (this *Client) SetTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		this.timeout = timeout
	}
	return this
}

// SetRedialInterval 设置重连间隔,退避起始时间,默认1秒
func (this *Client) SetRedialInterval(t time.Duration) *Client {
	if t > 0 {
		this.redial = t
	}
	return this
}

// SetRedialMaxTime 设置退避重试时间,默认32秒
func (this *Client) SetRedialMaxTime(t time.Duration) *Client {
	if t > 0 {
		this.redialMaxTime = t
	}
	return this
}

//================================DealFunc================================

// SetDealFunc 设置事件处理函数,能收到全部事件(消息,无效数据,状态变化)
func (this *Client) SetDealFunc(fn func(c *Client, e *Event)) *Client {
	this.dealFunc = append(this.dealFunc, fn)
	return this
}

// SetDealWithNil 不设置事件处理函数,删除之前设置的处理函数
func (this *Client) SetDealWithNil() *Client {
	this.dealFunc = nil
	return this
}

// SetDealWithLog 设置处理函数为打印日志
func (this *Client) SetDealWithLog() *Client {
	return this.SetDealFunc(func(c *Client, e *Event) {
		this.Infof("[%s] %s", c.GetKey(), e.String())
	})
}

// SetDealWithChan 设置事件处理到chan
func (this *Client) SetDealWithChan(ch chan *Event) *Client {
	return this.SetDealFunc(func(c *Client, e *Event) {
		ch <- e
	})
}

// SetDealWithQueue 设置协程队列处理事件
// @num 协程数量
// @fn 处理函数
func (this *Client) SetDealWithQueue(num int, fn func(e *Event)) *Client {
	queue := chans.NewEntity(num).SetHandler(func(ctx context.Context, no, count int, data interface{}) {
		fn(data.(*Event))
	})
	return this.SetDealFunc(func(c *Client, e *Event) { queue.Do(e) })
}

//================================ConnectFunc================================

// SetConnectFunc 连接成功事件,错误会断开连接
func (this *Client) SetConnectFunc(f func(c *Client) error) *Client {
	this.connectFunc = append(this.connectFunc, f)
	return this
}

// SetCloseFunc 设置断开连接事件
func (this *Client) SetCloseFunc(f func(c *Client, err error)) *Client {
	this.closeFunc = append(this.closeFunc, f)
	return this
}
