package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"StockPulse/pkg/stock"
)

// 入库事件主题
const SubjectStockIngested = "stock.ingested"

// NATSClient NATS客户端，发布入库事件供下游消费
type NATSClient struct {
	conn *nats.Conn
}

// NewNATSClient 创建新的NATS客户端
func NewNATSClient(natsURL string) (*NATSClient, error) {
	nc, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // 无限重连
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS连接断开: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Println("NATS重新连接成功")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("连接NATS失败: %w", err)
	}

	return &NATSClient{conn: nc}, nil
}

// PublishIngested 发布入库完成事件
func (c *NATSClient) PublishIngested(event stock.IngestedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	if err := c.conn.Publish(SubjectStockIngested, data); err != nil {
		return fmt.Errorf("发布事件失败: %w", err)
	}

	return nil
}

// SubscribeIngested 订阅入库完成事件
func (c *NATSClient) SubscribeIngested(handler func(event stock.IngestedEvent)) (*nats.Subscription, error) {
	sub, err := c.conn.Subscribe(SubjectStockIngested, func(msg *nats.Msg) {
		var event stock.IngestedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("解析入库事件失败: %v", err)
			return
		}
		handler(event)
	})
	if err != nil {
		return nil, fmt.Errorf("订阅入库事件失败: %w", err)
	}

	return sub, nil
}

// Close 关闭NATS连接
func (c *NATSClient) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
