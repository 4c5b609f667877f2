package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockNotAcquired = errors.New("booking lock not acquired")

// Locker guarda a seção check+insert por recurso (máquina, paciente).
type Locker interface {
	WithLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}

// MachineKey e PatientKey identificam um recurso em um dia de uma clínica.
func MachineKey(clinicID, machineID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("lock:clinica:%s:maquina:%s:%s", clinicID, machineID, date.Format("2006-01-02"))
}

func PatientKey(clinicID, patientID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("lock:clinica:%s:paciente:%s:%s", clinicID, patientID, date.Format("2006-01-02"))
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisLocker) WithLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	keys = normalize(keys)
	token := uuid.NewString()

	// ordem fixa das chaves evita deadlock entre requisições
	var held []string
	defer func() {
		for _, key := range held {
			_ = l.release(context.Background(), key, token)
		}
	}()

	for _, key := range keys {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if !ok {
			return ErrLockNotAcquired
		}
		held = append(held, key)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

// NopLocker só executa fn. Usado quando o Redis não está configurado;
// a transação serializável e as constraints continuam valendo.
type NopLocker struct{}

func (NopLocker) WithLock(ctx context.Context, _ []string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
