package framework

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger - отладочный вывод сценария (c.Debug и DebugLogger).
type Logger interface {
	Printf(message string, args ...interface{})
}

// CapturedMessage - одна строка c.Debug с моментом записи.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput печатается только для проваленных сценариев
// или при -debug-all.
type CapturedOutput []CapturedMessage

// CapturingLogger копит сообщения сценария в памяти. Нулевое значение готово
// к работе; Printf можно звать из горутин сценария.
type CapturingLogger struct {
	mu     sync.Mutex
	output CapturedOutput
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	msg := CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = append(l.output, msg)
}

// Output возвращает копию накопленного.
func (l *CapturingLogger) Output() CapturedOutput {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(CapturedOutput(nil), l.output...)
}

// Dump пишет строки в виде "<prefix>[15:04:05.000] сообщение".
// Дата не нужна: прогон укладывается в минуты.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n", prefix, m.Time.Format("15:04:05.000"), m.Message)
	}
}
