package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/openvest/vesting-server/pkg/vesting/data/allocation"
)

// Notifier observes externally interesting engine events. Implementations
// must not fail; notifications are fire-and-forget and carry no rollback
// semantics.
type Notifier interface {
	OnAllocationUpdated(ctx context.Context, record *allocation.Record)

	OnAllocationRemoved(ctx context.Context, allocationId string)

	OnVestingIncreased(ctx context.Context, owner, allocationId string, amount uint64)

	OnClaimed(ctx context.Context, owner string, amount uint64)
}

type loggingNotifier struct {
	log *logrus.Entry
}

// NewLoggingNotifier returns a Notifier that records events as structured
// log lines.
func NewLoggingNotifier() Notifier {
	return &loggingNotifier{
		log: logrus.StandardLogger().WithField("type", "vesting/engine/notifier"),
	}
}

func (n *loggingNotifier) OnAllocationUpdated(_ context.Context, record *allocation.Record) {
	n.log.WithFields(logrus.Fields{
		"allocation": record.AllocationId,
		"reserved":   record.Reserved,
	}).Debug("allocation updated")
}

func (n *loggingNotifier) OnAllocationRemoved(_ context.Context, allocationId string) {
	n.log.WithField("allocation", allocationId).Debug("allocation removed")
}

func (n *loggingNotifier) OnVestingIncreased(_ context.Context, owner, allocationId string, amount uint64) {
	n.log.WithFields(logrus.Fields{
		"owner":      owner,
		"allocation": allocationId,
		"amount":     amount,
	}).Debug("vesting increased")
}

func (n *loggingNotifier) OnClaimed(_ context.Context, owner string, amount uint64) {
	n.log.WithFields(logrus.Fields{
		"owner":  owner,
		"amount": amount,
	}).Debug("tokens claimed")
}
