package dial

import (
	"context"
	"github.com/injoyai/uart"
	"golang.org/x/crypto/ssh"
	"io"
	"strings"
	"time"
)

//================================SSHDial================================

type SSHConfig struct {
	Addr          string
	User          string        //用户名,默认root
	Password      string        //密码,类型为password时生效
	Timeout       time.Duration //连接超时时间,默认10秒
	High          int           //终端高,默认32
	Wide          int           //终端宽,默认300
	Term          string        //终端类型,默认xterm
	Type          string        //认证类型,password或者key
	key           string        //私钥,类型为key时生效
	keyPassword   string        //私钥密码
	TerminalModes ssh.TerminalModes
}

func (this *SSHConfig) new() *SSHConfig {
	if !strings.Contains(this.Addr, ":") {
		this.Addr += ":22"
	}
	if len(this.User) == 0 {
		this.User = "root"
	}
	if this.Timeout == 0 {
		this.Timeout = time.Second * 10
	}
	if this.High == 0 {
		this.High = 32
	}
	if this.Wide == 0 {
		this.Wide = 300
	}
	if len(this.Term) == 0 {
		this.Term = "xterm"
	}
	if this.TerminalModes == nil {
		this.TerminalModes = ssh.TerminalModes{
			ssh.ECHO:          1,
			ssh.TTY_OP_ISPEED: 14400,
			ssh.TTY_OP_OSPEED: 14400,
		}
	}
	return this
}

// SetKey 设置私钥认证
func (this *SSHConfig) SetKey(key, password string) *SSHConfig {
	this.Type = "key"
	this.key = key
	this.keyPassword = password
	return this
}

// SSH 连接SSH服务,打开shell终端
func SSH(cfg *SSHConfig) (io.ReadWriteCloser, error) {
	cfg.new()
	config := &ssh.ClientConfig{
		User:            cfg.User,
		Timeout:         cfg.Timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	switch strings.ToLower(cfg.Type) {
	case "key":
		var signer ssh.Signer
		var err error
		if len(cfg.keyPassword) == 0 {
			signer, err = ssh.ParsePrivateKey([]byte(cfg.key))
		} else {
			signer, err = ssh.ParsePrivateKeyWithPassphrase([]byte(cfg.key), []byte(cfg.keyPassword))
		}
		if err != nil {
			return nil, err
		}
		config.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	default:
		config.Auth = []ssh.AuthMethod{ssh.Password(cfg.Password)}
	}
	client, err := ssh.Dial("tcp", cfg.Addr, config)
	if err != nil {
		return nil, err
	}
	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, err
	}
	if err := session.RequestPty(cfg.Term, cfg.High, cfg.Wide, cfg.TerminalModes); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	reader, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	writer, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	return &SSHClient{
		Reader:  reader,
		Writer:  writer,
		session: session,
		client:  client,
	}, nil
}

// WithSSH 连接SSH服务函数
func WithSSH(cfg *SSHConfig) uart.DialFunc {
	return func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		c, err := SSH(cfg)
		return c, cfg.Addr, err
	}
}

// RedialSSH 新建SSH客户端,断开自动重连
func RedialSSH(cfg *SSHConfig, options ...uart.Option) *uart.Client {
	return uart.New(WithSSH(cfg), options...).Start()
}

type SSHClient struct {
	io.Reader
	io.Writer
	session *ssh.Session
	client  *ssh.Client
}

// Close 关闭会话和底层连接
func (this *SSHClient) Close() error {
	this.session.Close()
	return this.client.Close()
}
