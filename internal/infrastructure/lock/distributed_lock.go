package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// unlockScript melepas lock hanya jika masih dimiliki pemanggil.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// DistributedLock adalah lock sederhana berbasis Redis SETNX. Dipakai
// untuk menserialkan penomoran invoice antar proses.
type DistributedLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// NewInvoiceLock membuat lock per varian dan periode penomoran, sehingga
// dua varian berbeda tidak saling memblokir.
func NewInvoiceLock(client *redis.Client, jenis string, year int, month time.Month) *DistributedLock {
	key := fmt.Sprintf("lock:invoice_no:%s:%04d%02d", jenis, year, int(month))
	return &DistributedLock{
		client: client,
		key:    key,
		value:  uuid.NewString(),
		ttl:    10 * time.Second,
	}
}

// TryLock mencoba mengambil lock dengan retry singkat.
func (l *DistributedLock) TryLock(ctx context.Context, maxWait time.Duration) (bool, error) {
	deadline := time.Now().Add(maxWait)
	for {
		ok, err := l.client.SetNX(ctx, l.key, l.value, l.ttl).Result()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (l *DistributedLock) Unlock(ctx context.Context) error {
	return l.client.Eval(ctx, unlockScript, []string{l.key}, l.value).Err()
}
