package catalog

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrOfferIsNotConstructed is returned when an Offer instance was not created
// through NewOffer or RestoreOffer.
var ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer or RestoreOffer constructor")

// Offer is a promotional discount. Only its soft-delete lifecycle matters to
// the fulfillment core; pricing application happens at order creation and uses
// the discount amount frozen into the order.
type Offer struct {
	id         kernel.UUID
	title      string
	percentOff int
	trashState kernel.TrashState

	isConstructed bool
}

// NewOffer creates a live promotional offer with a percentage discount.
func NewOffer(id kernel.UUID, title string, percentOff int) (*Offer, error) {
	offer := &Offer{
		trashState:    kernel.Live(),
		isConstructed: true,
	}

	if err := errors.Join(
		offer.setID(id),
		offer.setTitle(title),
		offer.setPercentOff(percentOff),
	); err != nil {
		return nil, err
	}

	return offer, nil
}

// RestoreOffer reconstructs an offer from persistence.
func RestoreOffer(id kernel.UUID, title string, percentOff int, trashState kernel.TrashState) (*Offer, error) {
	offer := &Offer{
		trashState:    trashState,
		isConstructed: true,
	}

	if err := errors.Join(
		offer.setID(id),
		offer.setTitle(title),
		offer.setPercentOff(percentOff),
	); err != nil {
		return nil, err
	}

	return offer, nil
}

// Validate ensures the Offer was created through a constructor.
func (o *Offer) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOfferIsNotConstructed
	}
	return nil
}

// ID returns the offer's unique identifier.
func (o *Offer) ID() kernel.UUID {
	return o.id
}

// Title returns the offer's display title.
func (o *Offer) Title() string {
	return o.title
}

// PercentOff returns the discount percentage.
func (o *Offer) PercentOff() int {
	return o.percentOff
}

// TrashState returns the offer's soft-delete state.
func (o *Offer) TrashState() kernel.TrashState {
	return o.trashState
}

// MarkTrashed soft-deletes the offer at the given moment.
func (o *Offer) MarkTrashed(at time.Time) error {
	if o.trashState.IsTrashed() {
		return errs.NewInvalidStateError("offer", "already trashed")
	}

	state, err := kernel.Trashed(at)
	if err != nil {
		return err
	}
	o.trashState = state
	return nil
}

// RestoreFromTrash clears the soft-delete state.
func (o *Offer) RestoreFromTrash() error {
	if o.trashState.IsLive() {
		return errs.NewInvalidStateError("offer", "not trashed")
	}
	o.trashState = kernel.Live()
	return nil
}

func (o *Offer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Offer) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	o.title = title
	return nil
}

func (o *Offer) setPercentOff(percentOff int) error {
	if percentOff < 0 || percentOff > 100 {
		return errs.NewValueIsInvalidErrorWithCause("percentOff", fmt.Errorf("%d is not within 0..100", percentOff))
	}
	o.percentOff = percentOff
	return nil
}
