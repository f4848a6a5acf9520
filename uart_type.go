package uart

import (
	"context"
	"io"
)

const (
	StateDisconnected State = iota + 1
	StateConnecting
	StateConnected
	StateClosing
)

// State 连接状态
type State int32

var (
	StateMap = map[State]string{
		StateDisconnected: "断开",
		StateConnecting:   "连接中",
		StateConnected:    "已连接",
		StateClosing:      "关闭中",
	}
)

func (this State) String() string {
	return StateMap[this]
}

// DialFunc 连接函数,返回连接实例和标识(例如串口地址)
type DialFunc func(ctx context.Context) (io.ReadWriteCloser, string, error)

// Option 客户端选项
type Option func(c *Client)

// MessageReader 读取分包后的数据,例如websocket,mqtt
type MessageReader interface {
	ReadMessage() ([]byte, error)
}

//=================================Key=================================

type Key struct{ key string }

func (this *Key) GetKey() string { return this.key }

func (this *Key) SetKey(key string) { this.key = key }
