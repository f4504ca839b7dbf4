package service

import (
	"context"
	"strings"

	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
	log "github.com/sirupsen/logrus"
)

// ledgerAccess runs ledger operations against the configured store. When
// the store is shared with other processes every mutation happens under the
// store's lock on a freshly read copy of the event and is saved before it
// returns, and reads refresh the event first.
type ledgerAccess struct {
	ledger *ledger.Ledger
	store  ledger.Store
	shared ledger.SharedStore
}

func newLedgerAccess(l *ledger.Ledger, store ledger.Store) ledgerAccess {
	a := ledgerAccess{ledger: l, store: store}
	a.shared, _ = store.(ledger.SharedStore)
	return a
}

func (a ledgerAccess) mutate(ctx context.Context, eventID string, op func() error) error {
	if a.shared != nil && eventID != "" {
		return a.ledger.Apply(ctx, a.shared, eventID, op)
	}
	if err := op(); err != nil {
		return err
	}
	a.commit(ctx)
	return nil
}

// commit persists the mutation just made. A failed save leaves the records
// pending in the ledger for the flusher to retry.
func (a ledgerAccess) commit(ctx context.Context) {
	if a.store == nil {
		return
	}
	if err := a.ledger.Commit(ctx, a.store); err != nil {
		log.WithError(err).WithField("pending", a.ledger.Pending()).Error("persist registrations")
	}
}

func (a ledgerAccess) refresh(ctx context.Context, eventID string) error {
	if a.shared == nil {
		return nil
	}
	return a.ledger.Sync(ctx, a.shared, eventID)
}

// eventOf finds the event of a registration id or confirmation code. Without
// a shared store an unknown key yields "" and the ledger reports it.
func (a ledgerAccess) eventOf(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if eventID, ok := a.ledger.EventOf(key); ok {
		return eventID, nil
	}
	if a.shared == nil || key == "" {
		return "", nil
	}
	return a.shared.LocateEvent(ctx, key)
}

func (a ledgerAccess) records(ctx context.Context) ([]models.Registration, error) {
	if a.shared != nil {
		return a.shared.FindAll(ctx)
	}
	return a.ledger.Records(), nil
}
