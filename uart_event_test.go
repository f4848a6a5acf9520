package uart

import (
	"strings"
	"testing"
)

func TestDecodeMessage(t *testing.T) {
	{
		//正常消息,去除首尾残留的换行符
		e := DecodeMessage([]byte("OK ready\r\n"))
		if !e.IsMessage() || e.Content != "OK ready" {
			t.Error("测试失败:", e)
		} else {
			t.Log("测试通过:", e)
		}
	}
	{
		//空消息
		e := DecodeMessage([]byte("\r\n"))
		if !e.IsInvalid() || e.Content != "0d0a" {
			t.Error("测试失败:", e)
		} else {
			t.Log("测试通过:", e)
		}
	}
	{
		//非法字符,内容转为HEX
		e := DecodeMessage([]byte{0x4f, 0x4b, 0x01, 0x0d})
		if !e.IsInvalid() || e.Content != "4f4b010d" {
			t.Error("测试失败:", e)
		} else {
			t.Log("测试通过:", e)
		}
	}
	{
		//中文属于非法字符
		e := DecodeMessage([]byte("你好\r"))
		if !e.IsInvalid() {
			t.Error("测试失败:", e)
		} else {
			t.Log("测试通过:", e)
		}
	}
}

func TestEventBytes(t *testing.T) {
	{
		//消息事件的JSON不包含state和error字段
		s := newMessageEvent("OK").Bytes().String()
		if strings.Contains(s, "state") || strings.Contains(s, "error") {
			t.Error("测试失败:", s)
		} else {
			t.Log("测试通过:", s)
		}
	}
	{
		//状态事件的JSON包含state字段
		s := newStateEvent(StateConnected).Bytes().String()
		if !strings.Contains(s, "state") {
			t.Error("测试失败:", s)
		} else {
			t.Log("测试通过:", s)
		}
	}
}
