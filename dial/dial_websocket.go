package dial

import (
	"context"
	"github.com/gorilla/websocket"
	"github.com/injoyai/uart"
	"io"
	"net/http"
	gourl "net/url"
)

//================================WebsocketDial================================

// Websocket 连接Websocket服务
func Websocket(url string, header http.Header) (io.ReadWriteCloser, error) {
	c, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		return nil, err
	}
	return &WebsocketClient{Conn: c}, nil
}

// WithWebsocket 连接Websocket服务函数,标识取URL的路径
func WithWebsocket(url string, header http.Header) uart.DialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		c, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
		if err != nil {
			return nil, "", err
		}
		return &WebsocketClient{Conn: c}, func() string {
			if u, err := gourl.Parse(url); err == nil {
				return u.Path
			}
			return url
		}(), nil
	}
}

// RedialWebsocket 新建Websocket客户端,断开自动重连
func RedialWebsocket(url string, header http.Header, options ...uart.Option) *uart.Client {
	return uart.New(WithWebsocket(url, header), options...).Start()
}

type WebsocketClient struct {
	*websocket.Conn
}

// Read 无效,请使用ReadMessage
func (this *WebsocketClient) Read(p []byte) (int, error) {
	return 0, uart.ErrUseReadMessage
}

// ReadMessage 读取一条消息
func (this *WebsocketClient) ReadMessage() ([]byte, error) {
	_, data, err := this.Conn.ReadMessage()
	return data, err
}

// Write 写入一条文本消息
func (this *WebsocketClient) Write(p []byte) (int, error) {
	err := this.Conn.WriteMessage(websocket.TextMessage, p)
	return len(p), err
}

// Close 关闭连接
func (this *WebsocketClient) Close() error {
	return this.Conn.Close()
}
