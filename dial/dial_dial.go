package dial

import (
	"context"
	"github.com/injoyai/uart"
	"io"
	"net"
	"os"
)

//================================TCPDial================================

// TCP 连接TCP服务
func TCP(addr string) (io.ReadWriteCloser, error) {
	return net.Dial("tcp", addr)
}

// TCPFunc 连接TCP服务函数
func TCPFunc(addr string) uart.DialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		c, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
		return c, addr, err
	}
}

// RedialTCP 新建TCP客户端,例如串口服务器,断开自动重连
func RedialTCP(addr string, options ...uart.Option) *uart.Client {
	return uart.New(TCPFunc(addr), options...).Start()
}

//================================FileDial================================

// File 打开文件,例如Linux的tty设备文件
func File(path string) (io.ReadWriteCloser, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}

// FileFunc 打开文件函数
func FileFunc(path string) uart.DialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		c, err := File(path)
		return c, path, err
	}
}

// RedialFile 新建文件客户端,断开自动重连
func RedialFile(path string, options ...uart.Option) *uart.Client {
	return uart.New(FileFunc(path), options...).Start()
}

//================================MemoryDial================================

// Memory 内存回环,写入的数据会原样读出,方便测试
func Memory() (io.ReadWriteCloser, error) {
	server, client := net.Pipe()
	go func() {
		//回环,客户端关闭后退出
		io.Copy(server, server)
	}()
	return client, nil
}

// MemoryFunc 内存回环函数
func MemoryFunc() uart.DialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		c, err := Memory()
		return c, "memory", err
	}
}

// RedialMemory 新建内存回环客户端
func RedialMemory(options ...uart.Option) *uart.Client {
	return uart.New(MemoryFunc(), options...).Start()
}
