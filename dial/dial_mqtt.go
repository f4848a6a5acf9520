package dial

import (
	"context"
	"errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/injoyai/uart"
	"io"
	"sync"
	"time"
)

//================================MQTTDial================================

type MQTTConfig = mqtt.ClientOptions

// NewMQTTOptions 新建默认配置信息
func NewMQTTOptions() *MQTTConfig {
	return mqtt.NewClientOptions()
}

// MQTT 连接MQTT服务,订阅subscribe主题作为读取,发布到publish主题作为写入
func MQTT(subscribe, publish string, qos byte, cfg *MQTTConfig) (io.ReadWriteCloser, error) {
	if cfg == nil {
		cfg = NewMQTTOptions()
	}
	c := mqtt.NewClient(cfg)
	t := cfg.ConnectTimeout
	if t <= 0 {
		t = time.Second * 10
	}
	token := c.Connect()
	if !token.WaitTimeout(t) {
		return nil, errors.New("连接超时")
	}
	if token.Error() != nil {
		return nil, token.Error()
	}
	client := &MQTTClient{
		Client:    c,
		subscribe: subscribe,
		publish:   publish,
		qos:       qos,
		ch:        make(chan mqtt.Message, 1000),
		done:      make(chan struct{}),
	}
	token = c.Subscribe(subscribe, qos, func(c mqtt.Client, message mqtt.Message) {
		select {
		case client.ch <- message:
		case <-client.done:
		}
	})
	token.Wait()
	if token.Error() != nil {
		c.Disconnect(250)
		return nil, token.Error()
	}
	return client, nil
}

// WithMQTT 连接MQTT服务函数
func WithMQTT(subscribe, publish string, qos byte, cfg *MQTTConfig) uart.DialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		c, err := MQTT(subscribe, publish, qos, cfg)
		return c, publish, err
	}
}

// RedialMQTT 新建MQTT客户端,断开自动重连
func RedialMQTT(subscribe, publish string, qos byte, cfg *MQTTConfig, options ...uart.Option) *uart.Client {
	return uart.New(WithMQTT(subscribe, publish, qos, cfg), options...).Start()
}

type MQTTClient struct {
	mqtt.Client
	subscribe string //订阅主题,读
	publish   string //发布主题,写
	qos       byte
	ch        chan mqtt.Message
	done      chan struct{}
	once      sync.Once
}

// Read 无效,请使用ReadMessage
func (this *MQTTClient) Read(p []byte) (int, error) {
	return 0, uart.ErrUseReadMessage
}

// ReadMessage 读取订阅主题的消息
func (this *MQTTClient) ReadMessage() ([]byte, error) {
	select {
	case msg := <-this.ch:
		msg.Ack()
		return msg.Payload(), nil
	case <-this.done:
		return nil, uart.ErrConnectionLost
	}
}

// Write 发布到发布主题
func (this *MQTTClient) Write(p []byte) (int, error) {
	token := this.Client.Publish(this.publish, this.qos, false, p)
	token.Wait()
	return len(p), token.Error()
}

// Close 取消订阅并断开连接
func (this *MQTTClient) Close() error {
	this.once.Do(func() { close(this.done) })
	token := this.Client.Unsubscribe(this.subscribe)
	token.Wait()
	this.Client.Disconnect(250)
	return token.Error()
}
