package commands_test

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/bonus"
	"orderflow/internal/core/domain/model/inbox"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/domain/model/projection"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// memState is everything one transaction can see.
type memState struct {
	orders   map[kernel.UUID]order.Order
	outbox   []outbox.Message
	inbox    map[string]inbox.Entry
	profiles map[kernel.UUID]bonus.Profile
	policy   *bonus.VipProfilePolicy
	rows     map[kernel.UUID]projection.CommissionerOrder
	seq      int64
}

func newMemState() memState {
	return memState{
		orders:   map[kernel.UUID]order.Order{},
		inbox:    map[string]inbox.Entry{},
		profiles: map[kernel.UUID]bonus.Profile{},
		rows:     map[kernel.UUID]projection.CommissionerOrder{},
	}
}

func (s memState) clone() memState {
	c := s
	c.orders = maps.Clone(s.orders)
	c.outbox = slices.Clone(s.outbox)
	c.inbox = maps.Clone(s.inbox)
	c.profiles = maps.Clone(s.profiles)
	c.rows = maps.Clone(s.rows)
	return c
}

// memStore is a transactional in-memory store: writes become visible on Commit.
type memStore struct {
	mu        sync.Mutex
	committed memState
	commits   int

	// onBegin runs once, right after the next transaction took its snapshot.
	onBegin func()
}

func newMemStore() *memStore {
	return &memStore{committed: newMemState()}
}

func (s *memStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.clone()
}

func (s *memStore) outboxNames() []string {
	var names []string
	for _, m := range s.snapshot().outbox {
		names = append(names, m.EventName().String())
	}
	return names
}

func (s *memStore) Create() *memUoW {
	return &memUoW{store: s}
}

func (s *memStore) OrderFactory() commands.OrderUoWFactory {
	return orderFactory(func() commands.OrderUoW { return s.Create() })
}

func (s *memStore) OutboxFactory() commands.OutboxUoWFactory {
	return outboxFactory(func() commands.OutboxUoW { return s.Create() })
}

func (s *memStore) IngestFactory() commands.IngestUoWFactory {
	return ingestFactory(func() commands.IngestUoW { return s.Create() })
}

func (s *memStore) PolicyFactory() commands.PolicyUoWFactory {
	return policyFactory(func() commands.PolicyUoW { return s.Create() })
}

type (
	orderFactory  func() commands.OrderUoW
	outboxFactory func() commands.OutboxUoW
	ingestFactory func() commands.IngestUoW
	policyFactory func() commands.PolicyUoW
)

func (f orderFactory) Create() commands.OrderUoW { return f() }
func (f outboxFactory) Create() commands.OutboxUoW { return f() }
func (f ingestFactory) Create() commands.IngestUoW { return f() }
func (f policyFactory) Create() commands.PolicyUoW { return f() }

var errNoTx = errors.New("no transaction")

type memUoW struct {
	store *memStore
	tx    *memState
}

func (u *memUoW) Begin(context.Context) error {
	s := u.store.snapshot()
	u.tx = &s

	u.store.mu.Lock()
	hook := u.store.onBegin
	u.store.onBegin = nil
	u.store.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	if u.tx == nil {
		return errNoTx
	}
	u.store.mu.Lock()
	u.store.committed = *u.tx
	u.store.commits++
	u.store.mu.Unlock()
	u.tx = nil
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	if u.tx == nil {
		return errNoTx
	}
	u.tx = nil
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository { return memOrders{u} }
func (u *memUoW) OutboxRepository() ports.OutboxRepository { return memOutbox{u} }
func (u *memUoW) InboxRepository() ports.InboxRepository { return memInbox{u} }
func (u *memUoW) BonusProfileRepository() ports.BonusProfileRepository { return memProfiles{u} }
func (u *memUoW) VipPolicyRepository() ports.VipPolicyRepository { return memPolicy{u} }
func (u *memUoW) CommissionerOrderRepository() ports.CommissionerOrderRepository { return memRows{u} }

type memOrders struct{ u *memUoW }

func (r memOrders) Add(_ context.Context, o order.Order) error {
	if _, ok := r.u.tx.orders[o.ID()]; ok {
		return errs.NewAlreadyExistsError("order", o.ID().String())
	}
	r.u.tx.orders[o.ID()] = o
	return nil
}

func (r memOrders) Update(_ context.Context, o order.Order, expected int64) error {
	stored, ok := r.u.tx.orders[o.ID()]
	if !ok || stored.Version() != expected {
		return errs.NewConcurrencyConflictError("order", o.ID().String(), expected)
	}
	r.u.tx.orders[o.ID()] = o
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (order.Order, error) {
	o, ok := r.u.tx.orders[id]
	if !ok {
		return order.Order{}, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (r memOrders) GetExpiredPending(_ context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	for id, o := range r.u.tx.orders {
		if o.State() == order.PendingWorkshopInvitations && o.Request().IsExpired(now) && len(ids) < limit {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memOutbox struct{ u *memUoW }

func (r memOutbox) Append(_ context.Context, messages ...*outbox.Message) error {
	for _, m := range messages {
		r.u.tx.seq++
		restored, err := outbox.RestoreMessage(outbox.RestoreParams{
			ID: m.ID(), Seq: r.u.tx.seq, EventName: m.EventName(), AggregateID: m.AggregateID(),
			Payload: m.Payload(), CreatedAt: m.CreatedAt(),
		})
		if err != nil {
			return err
		}
		r.u.tx.outbox = append(r.u.tx.outbox, *restored)
	}
	return nil
}

func (r memOutbox) LockPending(_ context.Context, limit int) ([]*outbox.Message, error) {
	var out []*outbox.Message
	for i := range r.u.tx.outbox {
		m := r.u.tx.outbox[i]
		if !m.IsPublished() && !m.IsDead() && len(out) < limit {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r memOutbox) SaveDelivery(_ context.Context, m *outbox.Message) error {
	for i := range r.u.tx.outbox {
		if r.u.tx.outbox[i].ID().IsEqual(m.ID()) {
			r.u.tx.outbox[i] = *m
			return nil
		}
	}
	return errs.NewObjectNotFoundError("outbox message", m.ID().String())
}

type memInbox struct{ u *memUoW }

func (r memInbox) Register(_ context.Context, e inbox.Entry) (bool, error) {
	key := e.Consumer + "/" + e.EventID.String()
	if _, ok := r.u.tx.inbox[key]; ok {
		return false, nil
	}
	r.u.tx.inbox[key] = e
	return true, nil
}

type memProfiles struct{ u *memUoW }

func (r memProfiles) Get(_ context.Context, id kernel.UUID) (bonus.Profile, error) {
	p, ok := r.u.tx.profiles[id]
	if !ok {
		return bonus.Profile{}, errs.NewObjectNotFoundError("bonus profile", id.String())
	}
	return p, nil
}

func (r memProfiles) Save(_ context.Context, p bonus.Profile) error {
	stored, ok := r.u.tx.profiles[p.CommissionerID()]
	if (ok && stored.Version() != p.Version()-1) || (!ok && p.Version() != 1) {
		return errs.NewConcurrencyConflictError("bonus profile", p.CommissionerID().String(), p.Version()-1)
	}
	r.u.tx.profiles[p.CommissionerID()] = p
	return nil
}

type memPolicy struct{ u *memUoW }

func (r memPolicy) Current(context.Context) (bonus.VipProfilePolicy, error) {
	if r.u.tx.policy == nil {
		return bonus.DefaultVipProfilePolicy(), nil
	}
	return *r.u.tx.policy, nil
}

func (r memPolicy) Replace(ctx context.Context, p bonus.VipProfilePolicy) error {
	current, _ := r.Current(ctx)
	if current.Version() != p.Version()-1 {
		return errs.NewConcurrencyConflictError("vip policy", p.Name(), p.Version()-1)
	}
	r.u.tx.policy = &p
	return nil
}

type memRows struct{ u *memUoW }

func (r memRows) Get(_ context.Context, id kernel.UUID) (projection.CommissionerOrder, bool, error) {
	row, ok := r.u.tx.rows[id]
	return row, ok, nil
}

// Insert fails like a primary key would: against rows committed by any
// transaction, not only the ones in this snapshot.
func (r memRows) Insert(_ context.Context, row projection.CommissionerOrder) error {
	r.u.store.mu.Lock()
	_, committed := r.u.store.committed.rows[row.OrderID]
	r.u.store.mu.Unlock()
	if _, ok := r.u.tx.rows[row.OrderID]; ok || committed {
		return errs.NewConcurrencyConflictError("commissioner order", row.OrderID.String(), 0)
	}
	r.u.tx.rows[row.OrderID] = row
	return nil
}

func (r memRows) Upsert(_ context.Context, row projection.CommissionerOrder) error {
	if stored, ok := r.u.tx.rows[row.OrderID]; ok && stored.AggregateVersion > row.AggregateVersion {
		return nil
	}
	r.u.tx.rows[row.OrderID] = row
	return nil
}
