package uart

import (
	"github.com/injoyai/conv"
	"strings"
	"time"
)

// pending 等待响应的请求,同一时间最多存在一个
type pending struct {
	prefix string         //要求的响应前缀
	ch     chan *response //响应结果,缓冲1,保证写入不阻塞
}

type response struct {
	event *Event
	err   error
}

// Request 同步请求,写入请求并等待指定前缀的响应
// 响应前缀区分大小写,空前缀表示任意响应
// 同一时间只允许一个请求,重复请求立即返回ErrBusy
// 未匹配的消息不会消耗请求,只会分发到处理函数
func (this *Client) Request(request string, prefix string, timeout ...time.Duration) (*Event, error) {
	t := conv.GetDefaultDuration(this.timeout, timeout...)

	if !this.Connected() {
		return nil, ErrNotConnected
	}

	//先注册请求,再写入数据,避免快速响应的设备漏掉响应
	this.pendingMu.Lock()
	if this.pending != nil {
		this.pendingMu.Unlock()
		return nil, ErrBusy
	}
	p := &pending{
		prefix: prefix,
		ch:     make(chan *response, 1),
	}
	this.pending = p
	this.pendingMu.Unlock()

	if _, err := this.WriteString(request); err != nil {
		this.clearPending(p)
		return nil, err
	}

	timer := time.NewTimer(t)
	defer timer.Stop()
	select {
	case r := <-p.ch:
		return r.event, r.err

	case <-timer.C:
		this.clearPending(p)
		select {
		case r := <-p.ch:
			//超时和响应同时发生,优先返回响应
			return r.event, r.err
		default:
		}
		return nil, ErrWithTimeout

	case <-this.ctx.Done():
		this.clearPending(p)
		return nil, this.Err()
	}
}

// WriteRead 同步写读,等待任意响应
func (this *Client) WriteRead(request []byte, timeout ...time.Duration) (*Event, error) {
	return this.Request(string(request), "", timeout...)
}

// resolve 尝试用消息完成等待中的请求,内容前缀匹配才会消耗请求
func (this *Client) resolve(e *Event) bool {
	this.pendingMu.Lock()
	p := this.pending
	if p == nil || !strings.HasPrefix(e.Content, p.prefix) {
		this.pendingMu.Unlock()
		return false
	}
	this.pending = nil
	this.pendingMu.Unlock()
	p.ch <- &response{event: e}
	return true
}

// failPending 唤醒等待中的请求,例如断开连接或者主动关闭
func (this *Client) failPending(err error) {
	this.pendingMu.Lock()
	p := this.pending
	this.pending = nil
	this.pendingMu.Unlock()
	if p != nil {
		p.ch <- &response{err: err}
	}
}

// clearPending 清除请求,只清除自己的,避免误删后续请求
func (this *Client) clearPending(p *pending) {
	this.pendingMu.Lock()
	if this.pending == p {
		this.pending = nil
	}
	this.pendingMu.Unlock()
}
