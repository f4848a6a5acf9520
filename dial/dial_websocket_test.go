package dial

import (
	"github.com/gorilla/websocket"
	"github.com/injoyai/uart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRedialWebsocket(t *testing.T) {
	//模拟设备,按消息回复
	upgrader := websocket.Upgrader{}
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				return
			}
			req := strings.TrimSpace(string(p))
			conn.WriteMessage(websocket.TextMessage, []byte(req+" ok"))
		}
	}))
	defer s.Close()

	url := "ws" + strings.TrimPrefix(s.URL, "http")
	c := RedialWebsocket(url, nil, func(c *uart.Client) {
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
