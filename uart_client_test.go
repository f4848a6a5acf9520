package uart

import (
	"context"
	"errors"
	"github.com/creack/pty"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

//pipeDial 每次连接返回net.Pipe的一端,另一端发到ch,模拟设备
func pipeDial(ch chan net.Conn) DialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		device, client := net.Pipe()
		select {
		case ch <- device:
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
		return client, "pipe", nil
	}
}

func waitConnected(c *Client) {
	for i := 0; i < 200 && !c.Connected(); i++ {
		time.Sleep(time.Millisecond * 10)
	}
}

func TestRunRedial(t *testing.T) {
	//前3次连接失败,第4次成功
	attempts := int32(0)
	ch := make(chan *Event, 100)
	c := New(func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		if atomic.AddInt32(&attempts, 1) <= 3 {
			return nil, "", errors.New("设备未就绪")
		}
		device, client := net.Pipe()
		go io.Copy(io.Discard, device)
		return client, "pipe", nil
	}, func(c *Client) {
		c.Debug(false)
		c.SetRedialInterval(time.Millisecond * 10)
		c.SetRedialMaxTime(time.Millisecond * 50)
		c.SetDealWithChan(ch)
	}).Start()
	defer c.Stop()

	//等待已连接的状态事件,之前的状态事件依次为连接中
	list := []State(nil)
	timeout := time.After(time.Second * 5)
	for len(list) == 0 || list[len(list)-1] != StateConnected {
		select {
		case e := <-ch:
			if e.IsState() {
				list = append(list, e.State)
			}
		case <-timeout:
			t.Error("测试失败,状态事件:", list)
			return
		}
	}
	if n := atomic.LoadInt32(&attempts); n != 4 {
		t.Error("测试失败,尝试次数:", n)
		return
	}
	for _, s := range list[:len(list)-1] {
		if s != StateConnecting {
			t.Error("测试失败,状态事件:", list)
			return
		}
	}
	t.Log("测试通过:", list)
}

func TestReconnect(t *testing.T) {
	//设备断开后自动重连,恢复请求
	conns := make(chan net.Conn, 2)
	c := New(pipeDial(conns), func(c *Client) {
		c.Debug(false)
		c.SetRedialInterval(time.Millisecond * 10)
	}).Start()
	defer c.Stop()
	device := <-conns
	waitConnected(c)
	device.Close()
	device = <-conns
	go func() {
		buf := make([]byte, 1024)
		if _, err := device.Read(buf); err != nil {
			return
		}
		device.Write([]byte("OK\r"))
	}()
	waitConnected(c)
	e, err := c.Request("AT", "OK", time.Second)
	if err != nil {
		t.Error(err)
		return
	}
	if e.Content != "OK" {
		t.Error("测试失败:", e.Content)
	} else {
		t.Log("测试通过")
	}
}

func TestForceReconnect(t *testing.T) {
	conns := make(chan net.Conn, 2)
	c := New(pipeDial(conns), func(c *Client) {
		c.Debug(false)
		c.SetRedialInterval(time.Millisecond * 10)
	}).Start()
	defer c.Stop()
	device := <-conns
	go io.Copy(io.Discard, device)
	waitConnected(c)
	c.Reconnect()
	//强制重连后拿到新连接
	select {
	case <-conns:
		t.Log("测试通过")
	case <-time.After(time.Second * 2):
		t.Error("测试失败,未重连")
	}
}

func TestOnConnect(t *testing.T) {
	//首次连接校验失败,触发重连
	conns := make(chan net.Conn, 2)
	count := int32(0)
	c := New(pipeDial(conns), func(c *Client) {
		c.Debug(false)
		c.SetRedialInterval(time.Millisecond * 10)
		c.OnConnect(func(c *Client) error {
			if atomic.AddInt32(&count, 1) == 1 {
				return errors.New("校验失败")
			}
			return nil
		})
	}).Start()
	defer c.Stop()
	d1 := <-conns
	go io.Copy(io.Discard, d1)
	d2 := <-conns
	go io.Copy(io.Discard, d2)
	for i := 0; i < 200 && atomic.LoadInt32(&count) < 2; i++ {
		time.Sleep(time.Millisecond * 10)
	}
	if n := atomic.LoadInt32(&count); n < 2 {
		t.Error("测试失败,连接次数:", n)
	} else {
		t.Log("测试通过")
	}
}

func TestOnMessage(t *testing.T) {
	//无请求等待时,消息进入处理函数,无效数据不会中断读取
	conns := make(chan net.Conn, 1)
	got := make(chan string, 10)
	invalid := make(chan *Event, 10)
	c := New(pipeDial(conns), func(c *Client) {
		c.Debug(false)
		c.OnMessage(func(c *Client, content string) {
			got <- content
		})
		c.SetDealFunc(func(c *Client, e *Event) {
			if e.IsInvalid() {
				invalid <- e
			}
		})
	}).Start()
	defer c.Stop()
	device := <-conns
	//先发一帧非法数据,再发正常数据
	device.Write([]byte{0x01, 0xff, 0x0d})
	device.Write([]byte("hello\r"))
	select {
	case s := <-got:
		if s != "hello" {
			t.Error("测试失败:", s)
		} else {
			t.Log("测试通过:", s)
		}
	case <-time.After(time.Second * 2):
		t.Error("测试失败,未收到消息")
		return
	}
	select {
	case e := <-invalid:
		if e.Content != "01ff" {
			t.Error("测试失败:", e.Content)
		} else {
			t.Log("测试通过:", e)
		}
	default:
		t.Error("测试失败,未收到无效数据事件")
	}
}

func TestStop(t *testing.T) {
	ch := make(chan net.Conn, 1)
	c := New(pipeDial(ch), func(c *Client) {
		c.Debug(false)
	}).Start()
	device := <-ch
	go io.Copy(io.Discard, device)
	waitConnected(c)
	if err := c.Stop(); err != nil {
		t.Error(err)
		return
	}
	//重复关闭
	if err := c.Stop(); err != nil {
		t.Error(err)
		return
	}
	if !c.Closed() {
		t.Error("测试失败,未关闭")
		return
	}
	if c.State() != StateDisconnected {
		t.Error("测试失败,状态:", c.State())
		return
	}
	if c.Err() != ErrHandClose {
		t.Error("测试失败:", c.Err())
		return
	}
	t.Log("测试通过")
}

func TestRequestPty(t *testing.T) {
	//通过伪终端模拟串口设备
	f, tty, err := pty.Open()
	if err != nil {
		t.Skip(err)
	}
	defer f.Close()
	defer tty.Close()
	go func() {
		//模拟设备,收到请求先回复无关数据,再回复匹配数据
		buf := make([]byte, 1024)
		responded := false
		for {
			n, err := f.Read(buf)
			if err != nil {
				return
			}
			if !responded && strings.Contains(string(buf[:n]), "AT") {
				responded = true
				f.Write([]byte("ERROR\nOK ready\n"))
			}
		}
	}()
	c := New(func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		return tty, "pty", nil
	}, func(c *Client) {
		c.Debug(false)
		c.SetDelimiter([]byte("\n"))
	}).Start()
	defer c.Stop()
	waitConnected(c)
	e, err := c.Request("AT", "OK", time.Second*2)
	if err != nil {
		t.Error(err)
		return
	}
	if e.Content != "OK ready" {
		t.Error("测试失败:", e.Content)
	} else {
		t.Log("测试通过:", e.Content)
	}
}
