package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	l    *zap.Logger
	once sync.Once
)

// L 获取全局 zap 日志实例
func L() *zap.Logger {
	once.Do(func() {
		lg, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		l = lg
	})
	return l
}
