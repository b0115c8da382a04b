package cache

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/models"
)

var (
	cacheInstance *PredictionCache
	cacheOnce     sync.Once
	cacheInitErr  error
)

const predictionKeyPrefix = "reviewlens:prediction:"

// PredictionCache stores classification results in valkey keyed by a digest of
// the backend, model, and input text. Identical input yields identical output,
// so cached entries are always safe to serve; every cache failure degrades to
// a fresh classification instead of failing the request.
type PredictionCache struct {
	client valkey.Client
	ttl    time.Duration
	mu     sync.Mutex
}

// InitPredictionCache connects to valkey using VALKEY_INIT_ADDRESS. Callers
// that get an error back run uncached.
func InitPredictionCache() (*PredictionCache, error) {
	cacheOnce.Do(func() {
		client, err := newValkeyClient()
		if err != nil {
			cacheInitErr = err
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			cacheInitErr = fmt.Errorf("[PredictionCache] failed to ping valkey: %w", err)
			return
		}

		slog.Info("[PredictionCache] Successfully connected to valkey")
		cacheInstance = &PredictionCache{
			client: client,
			ttl:    config.GetDurationSecondsOr("CACHE_TTL_SECONDS", 24*time.Hour),
		}
	})
	return cacheInstance, cacheInitErr
}

func newValkeyClient() (valkey.Client, error) {
	valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress: []string{
			valkeyAddr,
		},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[PredictionCache] failed to create valkey client: %w", err)
	}
	return client, nil
}

func ClosePredictionCache() {
	if cacheInstance != nil {
		cacheInstance.client.Close()
	}
}

// PredictionKey derives the cache key for a classification request. The
// digest covers backend and model so a checkpoint swap never serves stale
// labels.
func PredictionKey(backend, modelID, text string) string {
	raw := fmt.Sprintf("%s:%s:%s", backend, modelID, text)
	hash := sha256.Sum256([]byte(raw))
	return predictionKeyPrefix + hex.EncodeToString(hash[:])
}

func (pc *PredictionCache) GetPrediction(ctx context.Context, key string) (models.Prediction, bool) {
	res := pc.doWithRetry(ctx, pc.client.B().Get().Key(key).Build(), 3)
	if err := res.Error(); err != nil {
		if !valkey.IsValkeyNil(err) && isConnectionError(err) {
			pc.recreateClient()
		}
		return models.Prediction{}, false
	}

	raw, err := res.AsBytes()
	if err != nil {
		return models.Prediction{}, false
	}

	var pred models.Prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		slog.Warn("[PredictionCache] Failed to decode cached prediction",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return models.Prediction{}, false
	}
	return pred, true
}

func (pc *PredictionCache) StorePrediction(ctx context.Context, key string, pred models.Prediction) error {
	raw, err := json.Marshal(pred)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	res := pc.doWithRetry(ctx,
		pc.client.B().Set().Key(key).Value(string(raw)).ExSeconds(int64(pc.ttl.Seconds())).Build(), 3)
	if err := res.Error(); err != nil {
		return err
	}

	slog.Debug("[PredictionCache] Prediction stored",
		slog.String("key", key))
	return nil
}

func (pc *PredictionCache) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = pc.client.Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[PredictionCache] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func (pc *PredictionCache) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[PredictionCache] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	pc.mu.Lock()
	defer pc.mu.Unlock()
	slog.Warn("[PredictionCache] Attempting to recreate valkey client...")
	pc.client.Close()

	client, err := newValkeyClient()
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		panic(fmt.Errorf("[PredictionCache] failed to ping valkey: %w", err))
	}

	slog.Info("[PredictionCache] Successfully reconnected to valkey")
	pc.client = client
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
