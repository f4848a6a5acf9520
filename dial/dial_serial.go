package dial

import (
	"context"
	"errors"
	"github.com/goburrow/serial"
	"github.com/injoyai/base/oss"
	"github.com/injoyai/logs"
	"github.com/injoyai/uart"
	serial2 "go.bug.st/serial"
	"io"
	"time"
)

//================================SerialDial================================

const (
	SerialParityNone = "N" //无校验
	SerialParityEven = "E" //偶校验
	SerialParityOdd  = "O" //奇校验
)

type (
	SerialConfig      = serial.Config
	SerialRS485Config = serial.RS485Config
)

// Serial 打开串口,未设置的项使用默认配置(COM3,115200,8,1,N)
func Serial(cfg *SerialConfig) (io.ReadWriteCloser, error) {
	if cfg == nil {
		cfg = &SerialConfig{}
	}
	if len(cfg.Address) == 0 {
		cfg.Address = "COM3"
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 115200
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = 1
	}
	if len(cfg.Parity) == 0 {
		cfg.Parity = SerialParityNone
	}
	return serial.Open(cfg)
}

// SerialFunc 打开串口函数
func SerialFunc(cfg *SerialConfig) uart.DialFunc {
	if cfg == nil {
		cfg = &SerialConfig{}
	}
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		c, err := Serial(cfg)
		return c, cfg.Address, err
	}
}

// Serials 按顺序尝试打开多个串口,第一个成功的生效
func Serials(addrs []string, cfg *SerialConfig) uart.DialFunc {
	if cfg == nil {
		cfg = &SerialConfig{}
	}
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		for _, addr := range addrs {
			x := *cfg
			x.Address = addr
			c, err := Serial(&x)
			if err == nil {
				return c, addr, nil
			}
			logs.Errf("[%s] %v", addr, err)
		}
		return nil, "", errors.New("无可用串口")
	}
}

// RedialSerial 新建串口客户端,断开自动重连
func RedialSerial(cfg *SerialConfig, options ...uart.Option) *uart.Client {
	return uart.New(SerialFunc(cfg), func(c *uart.Client) {
		c.SetOptions(options...)
		oss.ListenExit(func() { c.Stop() })
	}).Start()
}

// RedialSerials 新建串口客户端,按顺序尝试多个串口,断开自动重连
func RedialSerials(addrs []string, cfg *SerialConfig, options ...uart.Option) *uart.Client {
	return uart.New(Serials(addrs, cfg), func(c *uart.Client) {
		c.SetOptions(options...)
		oss.ListenExit(func() { c.Stop() })
	}).Start()
}

// GetSerialPortList 获取当前串口列表
func GetSerialPortList() ([]string, error) {
	return serial2.GetPortsList()
}

// GetSerialBaudRate 获取波特率列表
func GetSerialBaudRate() []int {
	return []int{
		50, 75,
		110, 134, 150, 200, 300, 600,
		1200, 1800, 2400, 4800, 7200, 9600,
		14400, 19200, 28800, 38400, 57600, 76800,
		115200, 230400,
	}
}

// ScanSerial 扫描串口,遍历所有参数组合,发送探测数据,有响应的组合生效
func ScanSerial(addr string, timeout time.Duration, write []byte) (*SerialConfig, []byte) {
	for _, dataBits := range []int{8, 7, 6, 5} {
		for _, stopBits := range []int{1, 2} {
			for _, parity := range []string{SerialParityNone, SerialParityEven, SerialParityOdd} {
				for _, baudRate := range GetSerialBaudRate() {
					cfg := &SerialConfig{
						Address:  addr,
						BaudRate: baudRate,
						DataBits: dataBits,
						StopBits: stopBits,
						Parity:   parity,
						Timeout:  timeout,
					}
					result, err := func() ([]byte, error) {
						c, err := Serial(cfg)
						if err != nil {
							return nil, err
						}
						defer c.Close()
						if _, err := c.Write(write); err != nil {
							return nil, err
						}
						buf := make([]byte, 1024)
						n, err := c.Read(buf)
						if err != nil {
							return nil, err
						}
						return buf[:n], nil
					}()
					if err == nil && len(result) > 0 {
						return cfg, result
					}
					logs.Errf("%v %v", cfg, err)
				}
			}
		}
	}
	return nil, nil
}
