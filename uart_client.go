package uart

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"github.com/injoyai/base/maps"
	"github.com/injoyai/conv"
	"github.com/injoyai/uart/buf"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// New 新建客户端,此时不会连接,Start或Run之后生效
func New(dial DialFunc, options ...Option) *Client {
	return NewWithContext(context.Background(), dial, options...)
}

// NewWithContext 新建客户端,需要输入上下文,上下文关闭等效Stop
func NewWithContext(ctx context.Context, dial DialFunc, options ...Option) *Client {
	ctx, cancel := context.WithCancel(ctx)
	c := &Client{
		logger:        defaultLogger(),
		dialFunc:      dial,
		frameSize:     DefaultFrameSize,
		timeout:       DefaultResponseTimeout,
		redial:        DefaultRedialInterval,
		redialMaxTime: DefaultRedialMaxTime,
		state:         int32(StateDisconnected),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
		createTime:    time.Now(),
	}
	c.SetKey(fmt.Sprintf("%p", c))
	c.SetDelimiter(DefaultDelimiter)
	c.SetSuffix(DefaultSuffix)
	c.SetOptions(options...)
	return c
}

/*
Client 串口客户端
保持连接,断开后退避重连,读取数据按分隔符分包,
解析后的事件分发到处理函数,支持同步请求等待指定前缀的响应
各种设置,当Run函数执行时生效
*/
type Client struct {
	Key
	*logger

	dialFunc    DialFunc                     //连接函数
	readFunc    buf.ReadFunc                 //读取函数,从字节流中分包
	writeFunc   func(p []byte) []byte        //写入函数,封装数据,例如加后缀
	dealFunc    []func(c *Client, e *Event)  //事件处理函数
	connectFunc []func(c *Client) error      //连接成功事件
	closeFunc   []func(c *Client, err error) //断开连接事件

	i  io.ReadWriteCloser //连接实例,断开期间为nil
	mu sync.RWMutex       //保护连接实例

	delimiter     []byte        //消息分隔符
	frameSize     int           //最大帧长度
	timeout       time.Duration //默认响应超时时间
	redial        time.Duration //重连间隔
	redialMaxTime time.Duration //最大尝试退避重连时间

	pending   *pending   //等待响应的请求,最多一个
	pendingMu sync.Mutex //保护pending

	state   int32              //连接状态,原子操作
	running uint32             //是否在运行,原子操作
	closed  uint32             //是否主动关闭,原子操作
	ctx     context.Context    //上下文
	cancel  context.CancelFunc //上下文关闭
	done    chan struct{}      //读取循环退出信号

	tag        *maps.Safe //标签,用于记录连接的一些信息
	createTime time.Time  //创建时间

	ReadTime   time.Time //最后读取时间
	WriteTime  time.Time //最后写入时间
	ReadCount  uint64    //读取的字节数
	WriteCount uint64    //写入的字节数
}

//================================Nature================================

// ReadWriteCloser 当前连接实例,断开期间为nil
func (this *Client) ReadWriteCloser() io.ReadWriteCloser {
	return this.transport()
}

// CreateTime 创建时间
func (this *Client) CreateTime() time.Time {
	return this.createTime
}

// Tag 自定义信息,方便记录连接信息 例:c.Tag().GetString("imei")
func (this *Client) Tag() *maps.Safe {
	if this.tag == nil {
		this.tag = maps.NewSafe()
	}
	return this.tag
}

// SetKey 设置唯一标识
func (this *Client) SetKey(key string) *Client {
	this.Key.SetKey(key)
	return this
}

// State 连接状态
func (this *Client) State() State {
	return State(atomic.LoadInt32(&this.state))
}

// Connected 是否已连接
func (this *Client) Connected() bool {
	return this.State() == StateConnected
}

// Running 是否在运行
func (this *Client) Running() bool {
	return atomic.LoadUint32(&this.running) == 1
}

// Closed 是否已关闭
func (this *Client) Closed() bool {
	//方便业务逻辑 xxx==nil || xxx.Closed()
	if this == nil {
		return true
	}
	select {
	case <-this.ctx.Done():
		return true
	default:
		return false
	}
}

// Ctx 上下文,生命周期(客户端)
func (this *Client) Ctx() context.Context {
	return this.ctx
}

// Done 结束,关闭信号
func (this *Client) Done() <-chan struct{} {
	return this.ctx.Done()
}

// Err 关闭原因
func (this *Client) Err() error {
	if !this.Closed() {
		return nil
	}
	if atomic.LoadUint32(&this.closed) == 1 {
		return ErrHandClose
	}
	return this.ctx.Err()
}

func (this *Client) transport() io.ReadWriteCloser {
	this.mu.RLock()
	defer this.mu.RUnlock()
	return this.i
}

func (this *Client) setTransport(i io.ReadWriteCloser) {
	this.mu.Lock()
	this.i = i
	this.mu.Unlock()
}

//================================Write================================

// Write 写入数据,自动封装(例如加后缀),写入失败会断开连接并自动重连
func (this *Client) Write(p []byte) (int, error) {
	if this.Closed() {
		return 0, ErrHandClose
	}
	i := this.transport()
	if i == nil {
		return 0, ErrNotConnected
	}
	if this.writeFunc != nil {
		p = this.writeFunc(p)
	}
	n, err := i.Write(p)
	if err != nil {
		//关闭连接,读取循环会触发重连
		i.Close()
		return 0, dealErr(err)
	}
	this.WriteTime = time.Now()
	this.WriteCount += uint64(len(p))
	this.logger.Writeln("["+this.GetKey()+"] ", p)
	return n, nil
}

// WriteString 写入字符串,实现io.StringWriter
func (this *Client) WriteString(s string) (int, error) {
	return this.Write([]byte(s))
}

// WriteHEX 写入16进制数据
func (this *Client) WriteHEX(s string) (int, error) {
	bs, err := hex.DecodeString(s)
	if err != nil {
		return 0, err
	}
	return this.Write(bs)
}

// WriteAny 写入任意数据,根据conv转成字节
func (this *Client) WriteAny(any interface{}) (int, error) {
	return this.Write(conv.Bytes(any))
}

//================================RunTime================================

// Start 启动,非阻塞,等效go Run(),重复调用无效
func (this *Client) Start() *Client {
	go this.Run()
	return this
}

// Run 运行,会阻塞,断开后一直重连,只有Stop或者上下文关闭才会退出
func (this *Client) Run() error {
	if atomic.SwapUint32(&this.running, 1) == 1 {
		return nil
	}
	defer func() {
		this.failPending(ErrHandClose)
		this.setState(StateDisconnected)
		close(this.done)
	}()
	if this.dialFunc == nil {
		return ErrInvalidDialFunc
	}

	t := this.redial
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-this.ctx.Done():
			return this.Err()
		case <-timer.C:
		}

		this.setState(StateConnecting)
		i, key, err := this.dialFunc(this.ctx)
		if err != nil {
			this.Errorf("[%s] %v,等待%d秒重试", this.GetKey(), dealErr(err), t/time.Second)
			timer.Reset(t)
			t *= 2
			if t > this.redialMaxTime {
				t = this.redialMaxTime
			}
			continue
		}
		if len(key) > 0 {
			this.SetKey(key)
		}
		//连接成功,重置退避时间
		t = this.redial

		this.setTransport(i)
		this.setState(StateConnected)
		this.Infof("[%s] 连接成功...", this.GetKey())
		if err = this.connect(); err == nil {
			err = this.readLoop(i)
		}
		this.setTransport(nil)
		i.Close()

		err = dealErr(err)
		wakeErr := ErrConnectionLost
		if this.Closed() {
			wakeErr = ErrHandClose
		}
		this.failPending(wakeErr)
		this.disconnect(err)

		if this.Closed() {
			return this.Err()
		}
		this.Errorf("[%s] 连接断开(%v)", this.GetKey(), err)
		this.setState(StateConnecting)
		timer.Reset(t)
	}
}

// Stop 停止,幂等,会等待读取循环退出,并唤醒等待响应的请求
func (this *Client) Stop() error {
	if atomic.SwapUint32(&this.closed, 1) == 1 {
		return nil
	}
	this.setState(StateClosing)
	this.cancel()
	if i := this.transport(); i != nil {
		//关闭连接,唤醒阻塞中的读取
		i.Close()
	}
	if atomic.LoadUint32(&this.running) == 1 {
		<-this.done
	}
	this.failPending(ErrHandClose)
	this.setState(StateDisconnected)
	this.Infof("[%s] %v", this.GetKey(), ErrHandClose)
	return nil
}

// Close 等效Stop,实现io.Closer
func (this *Client) Close() error {
	return this.Stop()
}

// Reconnect 强制重连,关闭当前连接,读取循环会自动重连
func (this *Client) Reconnect() {
	if i := this.transport(); i != nil {
		i.Close()
	}
}

// readLoop 读取循环,生命周期(单次连接),返回断开原因
func (this *Client) readLoop(i io.ReadWriteCloser) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("%v", e)
		}
	}()
	r := bufio.NewReaderSize(i, DefaultBufferSize)
	mr, _ := i.(MessageReader)
	for {
		var bs []byte
		if mr != nil {
			//连接自带分包,例如websocket,mqtt
			bs, err = mr.ReadMessage()
		} else {
			if this.readFunc == nil {
				return ErrInvalidReadFunc
			}
			bs, err = this.readFunc(r)
		}
		if err != nil {
			return err
		}
		this.ReadTime = time.Now()
		this.ReadCount += uint64(len(bs))
		this.logger.Readln("["+this.GetKey()+"] ", bs)
		e := DecodeMessage(bs)
		if e.IsMessage() {
			this.resolve(e)
		}
		this.deal(e)
	}
}

// setState 更新连接状态,变化时生成状态事件
func (this *Client) setState(state State) {
	old := State(atomic.SwapInt32(&this.state, int32(state)))
	if old == state {
		return
	}
	this.deal(newStateEvent(state))
}

// deal 分发事件到全部处理函数,异常不会中断读取循环
func (this *Client) deal(e *Event) {
	defer func() {
		if err := recover(); err != nil {
			this.Errorf("[%s] 处理事件异常(%v)", this.GetKey(), err)
		}
	}()
	for _, fn := range this.dealFunc {
		fn(this, e)
	}
}

// connect 执行连接成功事件,错误会断开连接
func (this *Client) connect() error {
	for _, fn := range this.connectFunc {
		if err := fn(this); err != nil {
			return err
		}
	}
	return nil
}

// disconnect 执行断开连接事件
func (this *Client) disconnect(err error) {
	for _, fn := range this.closeFunc {
		fn(this, err)
	}
}
