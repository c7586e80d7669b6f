package engine

import (
	"brokerage/types"
	"context"
	"fmt"
	"sync"
)

// SubmitResult is the outcome of one submission attempt. Exactly one order
// record is persisted per attempt: the accepted order, or a REJECTED record
// with Rejection holding the reason.
type SubmitResult struct {
	Order     types.Order
	Rejection error
}

// SubmitOrder validates the request against the user's replayed ledger and
// persists the outcome.
//
// The validate-then-persist sequence reads the ledger and later writes a new
// order; two concurrent submissions for the same user could otherwise both
// pass the funds check before either write lands. The whole sequence runs
// under a per-user lock.
func (s *Service) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (SubmitResult, error) {
	unlock := s.locks.lock(req.UserId)
	defer unlock()

	exists, err := s.store.UserExists(ctx, req.UserId)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("user lookup: %w", err)
	}
	if !exists {
		return SubmitResult{}, ErrUserNotFound
	}

	resolved, err := s.validateOrder(ctx, req)
	if err != nil {
		if !IsRejection(err) {
			// Lookup misses and storage failures create no order.
			return SubmitResult{}, err
		}
		rejected := types.Order{
			UserId:       req.UserId,
			InstrumentId: req.InstrumentId,
			Side:         req.Side,
			Size:         req.Quantity,
			Price:        req.Price,
			Type:         req.Type,
			Status:       types.StatusRejected,
			Datetime:     s.now(),
		}
		if saveErr := s.store.SaveOrder(ctx, &rejected); saveErr != nil {
			return SubmitResult{}, fmt.Errorf("save rejected order: %w", saveErr)
		}
		s.log.Info().
			Int64("user_id", req.UserId).
			Int64("instrument_id", req.InstrumentId).
			Str("reason", err.Error()).
			Msg("order rejected")
		return SubmitResult{Order: rejected, Rejection: err}, nil
	}

	// LIMIT orders are recorded as FILLED and MARKET orders as NEW; a fill
	// process outside this core later settles the NEW ones.
	status := types.StatusNew
	if req.Type == types.TypeLimit {
		status = types.StatusFilled
	}

	order := types.Order{
		UserId:       req.UserId,
		InstrumentId: req.InstrumentId,
		Side:         req.Side,
		Size:         resolved.quantity,
		Price:        resolved.price,
		Type:         req.Type,
		Status:       status,
		Datetime:     s.now(),
	}
	if err := s.store.SaveOrder(ctx, &order); err != nil {
		return SubmitResult{}, fmt.Errorf("save order: %w", err)
	}
	s.log.Info().
		Int64("order_id", order.Id).
		Int64("user_id", order.UserId).
		Str("status", string(order.Status)).
		Msg("order accepted")
	return SubmitResult{Order: order}, nil
}

// userLocks serializes submissions per user. Entries are kept for the
// process lifetime; the map grows with the set of users seen.
type userLocks struct {
	mu   sync.Mutex
	held map[int64]*sync.Mutex
}

func newUserLocks() userLocks {
	return userLocks{held: make(map[int64]*sync.Mutex)}
}

func (l *userLocks) lock(userId int64) func() {
	l.mu.Lock()
	m, ok := l.held[userId]
	if !ok {
		m = &sync.Mutex{}
		l.held[userId] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
