package uart

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"github.com/injoyai/base/g"
	"time"
)

const (
	EventMessage = "message" //设备消息
	EventInvalid = "invalid" //无效数据
	EventState   = "state"   //连接状态变化
)

// Event 事件,设备消息,无效数据或者连接状态变化
type Event struct {
	Type    string    `json:"type"`              //事件类型
	Time    time.Time `json:"time"`              //事件时间
	Content string    `json:"content,omitempty"` //消息内容,无效数据为HEX
	Error   string    `json:"error,omitempty"`   //无效数据原因
	State   State     `json:"state,omitempty"`   //连接状态
}

func (this *Event) String() string {
	return string(this.Bytes())
}

func (this *Event) Bytes() g.Bytes {
	bs, _ := json.Marshal(this)
	return bs
}

func (this *Event) IsMessage() bool {
	return this.Type == EventMessage
}

func (this *Event) IsInvalid() bool {
	return this.Type == EventInvalid
}

func (this *Event) IsState() bool {
	return this.Type == EventState
}

func newMessageEvent(content string) *Event {
	return &Event{
		Type:    EventMessage,
		Time:    time.Now(),
		Content: content,
	}
}

func newInvalidEvent(raw []byte, reason string) *Event {
	return &Event{
		Type:    EventInvalid,
		Time:    time.Now(),
		Content: hex.EncodeToString(raw),
		Error:   reason,
	}
}

func newStateEvent(state State) *Event {
	return &Event{
		Type:    EventState,
		Time:    time.Now(),
		Content: state.String(),
		State:   state,
	}
}

// DecodeMessage 解析一帧数据,去除首尾残留的换行符和空格,
// 校验是否为可见ASCII字符(0x20~0x7E),无效数据返回invalid事件
func DecodeMessage(p []byte) *Event {
	bs := bytes.TrimSpace(p)
	if len(bs) == 0 {
		return newInvalidEvent(p, "空消息")
	}
	for _, b := range bs {
		if b < 0x20 || b > 0x7e {
			return newInvalidEvent(p, "非法字符")
		}
	}
	return newMessageEvent(string(bs))
}
