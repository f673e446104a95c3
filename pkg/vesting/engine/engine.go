// Package engine implements the vesting accounting engine. It composes the
// allocation registry, the vesting ledger, the genesis gate, claim settlement
// and supply reconciliation over a shared data provider, and settles claims
// against an external token ledger.
//
// Every mutating operation runs as a single atomic unit. Operations assume
// one writer at a time; callers are responsible for sequencing administrative
// edits relative to any external sale progression.
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	sync_util "github.com/openvest/vesting-server/pkg/sync"
	"github.com/openvest/vesting-server/pkg/vesting/data"
	"github.com/openvest/vesting-server/pkg/vesting/data/settings"
	"github.com/openvest/vesting-server/pkg/vesting/token"
)

type Engine struct {
	log *logrus.Entry

	conf *conf

	data  data.Provider
	token token.Client

	notifier Notifier

	// Serializes mutations against a single beneficiary. Cross-owner
	// operations (administrative edits, aggregates) rely on the data
	// provider's transaction isolation instead.
	ownerLocks *sync_util.StripedLock

	now func() uint64
}

// New returns a new vesting engine
func New(
	data data.Provider,
	tokenClient token.Client,
	notifier Notifier,
	configProvider ConfigProvider,
) *Engine {
	conf := configProvider()

	return &Engine{
		log: logrus.StandardLogger().WithField("type", "vesting/engine"),

		conf: conf,

		data:  data,
		token: tokenClient,

		notifier: notifier,

		ownerLocks: sync_util.NewStripedLock(uint(conf.stripedLockParallelization.Get(context.Background()))),

		now: func() uint64 {
			return uint64(time.Now().Unix())
		},
	}
}

func (e *Engine) requireAdmin(ctx context.Context, actor string) error {
	if len(actor) == 0 || actor != e.conf.adminPublicKey.Get(ctx) {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) vault(ctx context.Context) string {
	return e.conf.vaultPublicKey.Get(ctx)
}

// resolveQueryTime maps the public query-time convention, where zero means
// "now", onto an absolute timestamp.
func (e *Engine) resolveQueryTime(at uint64) uint64 {
	if at == 0 {
		return e.now()
	}
	return at
}

// getSettings returns the live settings record, substituting a zero record
// before the first write.
func (e *Engine) getSettings(ctx context.Context) (*settings.Record, error) {
	record, err := e.data.GetSettings(ctx)
	if err == settings.ErrNotFound {
		return &settings.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (e *Engine) isGenesisPassed(record *settings.Record) bool {
	return record.GenesisAt > 0 && e.now() >= record.GenesisAt
}
