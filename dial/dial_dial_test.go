package dial

import (
	"github.com/injoyai/uart"
	"net"
	"strings"
	"testing"
	"time"
)

func TestRedialMemory(t *testing.T) {
	c := RedialMemory(func(c *uart.Client) {
		c.Debug(false)
		c.SetDelimiter([]byte("\n"))
	})
	defer c.Stop()
	for i := 0; i < 100 && !c.Connected(); i++ {
		time.Sleep(time.Millisecond * 10)
	}
	//回环,请求的数据会原样响应
	e, err := c.Request("hello", "hello", time.Second)
	if err != nil {
		t.Error(err)
		return
	}
	if e.Content != "hello" {
		t.Error("测试失败:", e.Content)
	} else {
		t.Log("测试通过")
	}
}

func TestRedialTCP(t *testing.T) {
	//模拟串口服务器,按行回复
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Error(err)
		return
	}
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				buf := make([]byte, 1024)
				for {
					n, err := conn.Read(buf)
					if err != nil {
						return
					}
					req := strings.TrimSpace(string(buf[:n]))
					conn.Write([]byte(req + " ok\r\n"))
				}
			}(conn)
		}
	}()

	c := RedialTCP(l.Addr().String(), func(c *uart.Client) {
		c.Debug(false)
	})
	defer c.Stop()
	for i := 0; i < 100 && !c.Connected(); i++ {
		time.Sleep(time.Millisecond * 10)
	}
	e, err := c.Request("AT", "AT", time.Second*2)
	if err != nil {
		t.Error(err)
		return
	}
	if e.Content != "AT ok" {
		t.Error("测试失败:", e.Content)
	} else {
		t.Log("测试通过")
	}
}
