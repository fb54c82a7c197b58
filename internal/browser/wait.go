package browser

import (
	"context"
	"time"
)

const DefaultPollInterval = 250 * time.Millisecond

// Outcome - результат опроса: либо Satisfied со значением, либо таймаут.
// Err хранит последнюю ошибку чтения, если она была.
type Outcome[T any] struct {
	Satisfied bool
	Value     T
	Polls     int
	Elapsed   time.Duration
	Err       error
}

func (o Outcome[T]) TimedOut() bool {
	return !o.Satisfied
}

// Probe читает состояние документа без побочных эффектов.
// ok=false означает "еще не готово"; ошибка тоже трактуется как "еще не готово".
type Probe[T any] func(ctx context.Context) (value T, ok bool, err error)

// Poll опрашивает probe до первого успеха или до истечения timeout.
// Первая проверка выполняется сразу, следующие - через interval,
// последняя - в момент дедлайна. Отмена ctx завершает опрос как таймаут.
func Poll[T any](ctx context.Context, probe Probe[T], timeout, interval time.Duration) Outcome[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()
	deadline := start.Add(timeout)

	var out Outcome[T]
	for {
		out.Polls++
		value, ok, err := probe(ctx)
		if err != nil {
			out.Err = err
		}
		if ok {
			out.Satisfied = true
			out.Value = value
			out.Elapsed = time.Since(start)
			return out
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			out.Elapsed = time.Since(start)
			return out
		}
		if remaining > interval {
			remaining = interval
		}

		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			out.Err = ctx.Err()
			out.Elapsed = time.Since(start)
			return out
		case <-timer.C:
		}
	}
}

// WaitUntil - вариант Poll для булева предиката.
func WaitUntil(ctx context.Context, predicate func(ctx context.Context) (bool, error), timeout, interval time.Duration) Outcome[struct{}] {
	return Poll(ctx, func(ctx context.Context) (struct{}, bool, error) {
		ok, err := predicate(ctx)
		return struct{}{}, ok, err
	}, timeout, interval)
}
