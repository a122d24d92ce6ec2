package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// reservationRecord is the stored shape of a domain.UsernameReservation.
// The document id is the lowercased username (reservation key).
type reservationRecord struct {
	AccountID       string    `json:"accountId"`
	DisplayUsername string    `json:"displayUsername"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Reservations persists username reservations keyed by lowercased username.
type Reservations struct {
	store docstore.Store
}

// NewReservations creates the reservations repository.
func NewReservations(store docstore.Store) *Reservations {
	return &Reservations{store: store}
}

// Get fetches the reservation for the given username (any case).
func (r *Reservations) Get(ctx context.Context, username string) (*domain.UsernameReservation, error) {
	return r.GetIn(ctx, r.store, username)
}

// GetIn fetches the reservation through the given store view.
func (r *Reservations) GetIn(ctx context.Context, view docstore.Reader, username string) (*domain.UsernameReservation, error) {
	var rec reservationRecord
	key := domain.ReservationKey(username)
	if err := view.Get(ctx, docstore.CollectionUsernames, key, &rec); err != nil {
		return nil, fmt.Errorf("get reservation %q: %w", key, err)
	}
	return reservationFromRecord(rec)
}

// PutIn writes the reservation through the given store view.
func (r *Reservations) PutIn(ctx context.Context, w docstore.Writer, username string, res *domain.UsernameReservation) error {
	key := domain.ReservationKey(username)
	rec := reservationRecord{
		AccountID:       res.AccountID.String(),
		DisplayUsername: res.DisplayUsername,
		CreatedAt:       res.CreatedAt.UTC(),
	}
	if err := w.Put(ctx, docstore.CollectionUsernames, key, rec); err != nil {
		return fmt.Errorf("put reservation %q: %w", key, err)
	}
	return nil
}

// Delete removes the reservation for the given username.
func (r *Reservations) Delete(ctx context.Context, username string) error {
	return r.DeleteIn(ctx, r.store, username)
}

// DeleteIn removes the reservation through the given store view.
func (r *Reservations) DeleteIn(ctx context.Context, w docstore.Writer, username string) error {
	key := domain.ReservationKey(username)
	if err := w.Delete(ctx, docstore.CollectionUsernames, key); err != nil {
		return fmt.Errorf("delete reservation %q: %w", key, err)
	}
	return nil
}

// ByAccount reverse-looks-up the reservation owned by the given account.
// Returns domain.ErrNotFound if the account holds no username.
func (r *Reservations) ByAccount(ctx context.Context, accountID uuid.UUID) (*domain.UsernameReservation, error) {
	var recs []reservationRecord
	err := r.store.QueryByField(ctx, docstore.CollectionUsernames, "accountId", accountID.String(), 1, &recs)
	if err != nil {
		return nil, fmt.Errorf("reservation by account: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("reservation by account: %w", domain.ErrNotFound)
	}
	return reservationFromRecord(recs[0])
}

// RunTransaction exposes the store's transaction primitive for the
// reserve-or-reject check.
func (r *Reservations) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error {
	return r.store.RunTransaction(ctx, fn)
}

func reservationFromRecord(rec reservationRecord) (*domain.UsernameReservation, error) {
	accountID, err := uuid.Parse(rec.AccountID)
	if err != nil {
		return nil, fmt.Errorf("reservation record account id %q: %w", rec.AccountID, err)
	}
	return &domain.UsernameReservation{
		AccountID:       accountID,
		DisplayUsername: rec.DisplayUsername,
		CreatedAt:       rec.CreatedAt,
	}, nil
}
