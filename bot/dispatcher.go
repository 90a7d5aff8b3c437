package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultWorkerPoolSize = 64

	workerPoolExpireTime = time.Minute
)

// Dispatcher processes updates in a worker pool. Each update is
// handled with a context of the dispatcher, so closing it interrupts
// pending lookups.
type Dispatcher struct {
	ctx    context.Context
	bot    *Bot
	logger zerolog.Logger
	pool   *ants.PoolWithFunc
}

func (d *Dispatcher) Dispatch(update tgbotapi.Update) error {
	select {
	case <-d.ctx.Done():
		return d.ctx.Err()
	default:
	}

	if err := d.pool.Invoke(&update); err != nil {
		return fmt.Errorf("cannot schedule an update: %w", err)
	}

	return nil
}

func (d *Dispatcher) process(arg interface{}) {
	update := arg.(*tgbotapi.Update)

	d.logger.Debug().Int("update_id", update.UpdateID).Msg("Process update")
	d.bot.HandleUpdate(d.ctx, *update)
}

// Shutdown waits for running handlers at most timeout.
func (d *Dispatcher) Shutdown(timeout time.Duration) error {
	return d.pool.ReleaseTimeout(timeout)
}

func NewDispatcher(ctx context.Context, bot *Bot, poolSize int, logger zerolog.Logger) (*Dispatcher, error) {
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	rv := &Dispatcher{
		ctx:    ctx,
		bot:    bot,
		logger: logger,
	}

	pool, err := ants.NewPoolWithFunc(poolSize, rv.process,
		ants.WithExpiryDuration(workerPoolExpireTime),
		ants.WithPanicHandler(func(p interface{}) {
			logger.Error().Interface("panic", p).Msg("Update handler has panicked")
		}))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	rv.pool = pool

	return rv, nil
}
