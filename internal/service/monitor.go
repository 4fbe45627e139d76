package service

import (
	"sync"
	"time"
)

// Monitor 进程内运行指标，卖家后台的 runtime 面板直接读它
type Monitor struct {
	mu sync.RWMutex

	// 下单链路
	OrderRequests  int64
	OrdersPlaced   int64
	OrdersRejected int64
	StockConflicts int64

	// 错误统计
	DBErrors int64
	MQErrors int64

	// 邮件链路（mail-worker 上报）
	MailSent   int64
	MailFailed int64

	LastOrderTime time.Time
	LastDBError   time.Time
	LastMQError   time.Time
	LastMailTime  time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordOrderRequest 记录一次下单请求
func (m *Monitor) RecordOrderRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderRequests++
	m.LastOrderTime = time.Now()
}

// RecordOrderPlaced 记录下单成功
func (m *Monitor) RecordOrderPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersPlaced++
}

// RecordOrderRejected 记录下单被拒绝（校验/引用/库存）
func (m *Monitor) RecordOrderRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersRejected++
}

// RecordStockConflict 记录库存不足导致的拒单
func (m *Monitor) RecordStockConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StockConflicts++
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordMQError 记录MQ错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordMailSent 记录邮件发送成功
func (m *Monitor) RecordMailSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MailSent++
	m.LastMailTime = time.Now()
}

// RecordMailFailed 记录邮件发送失败
func (m *Monitor) RecordMailFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MailFailed++
	m.LastMailTime = time.Now()
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acceptRate := float64(0)
	if m.OrderRequests > 0 {
		acceptRate = float64(m.OrdersPlaced) / float64(m.OrderRequests) * 100
	}

	return map[string]interface{}{
		"orders": map[string]interface{}{
			"requests":        m.OrderRequests,
			"placed":          m.OrdersPlaced,
			"rejected":        m.OrdersRejected,
			"stock_conflicts": m.StockConflicts,
			"accept_rate":     acceptRate,
		},
		"errors": map[string]interface{}{
			"db": m.DBErrors,
			"mq": m.MQErrors,
		},
		"mail": map[string]interface{}{
			"sent":   m.MailSent,
			"failed": m.MailFailed,
		},
		"last_events": map[string]interface{}{
			"order":    m.LastOrderTime,
			"db_error": m.LastDBError,
			"mq_error": m.LastMQError,
			"mail":     m.LastMailTime,
		},
	}
}

// Reset 重置统计（用于测试或定期清理）
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderRequests = 0
	m.OrdersPlaced = 0
	m.OrdersRejected = 0
	m.StockConflicts = 0
	m.DBErrors = 0
	m.MQErrors = 0
	m.MailSent = 0
	m.MailFailed = 0
}
