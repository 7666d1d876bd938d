package exchange

import "fmt"

// Every failure class gets its own error type so callers can branch on
// the class while users still get a readable message. All of them are
// terminal for the invocation: the enclosing transaction is rolled back
// and nothing is retried internally.

// NotFoundError is returned when an entity id does not exist.
type NotFoundError struct {
	Entity string
	Id     uint64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.Id)
}

// UnauthorizedError is returned when the caller is not the required
// principal for the operation.
type UnauthorizedError struct{}

func (UnauthorizedError) Error() string {
	return "caller is not authorized to perform this action"
}

// InvalidInputError is returned for malformed input (zero shares, zero
// price). It is raised before any state is touched.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	return e.Reason
}

// AuctionNotStartedError is returned when an operation needs a running
// or finished auction but the stock was never auctioned.
type AuctionNotStartedError struct {
	StockId uint64
}

func (e AuctionNotStartedError) Error() string {
	return fmt.Sprintf("stock %d is yet to be auctioned", e.StockId)
}

// AuctionEndedError is returned when a bid arrives after the auction's
// end timestamp.
type AuctionEndedError struct {
	StockId uint64
}

func (e AuctionEndedError) Error() string {
	return fmt.Sprintf("auction for stock %d has ended", e.StockId)
}

// AuctionAlreadyStartedError is returned when starting an auction that
// is already running.
type AuctionAlreadyStartedError struct {
	StockId uint64
}

func (e AuctionAlreadyStartedError) Error() string {
	return fmt.Sprintf("stock %d is already in auction", e.StockId)
}

// AlreadyInSaleError is returned when starting or ending an auction
// that has already cleared.
type AlreadyInSaleError struct {
	StockId uint64
}

func (e AlreadyInSaleError) Error() string {
	return fmt.Sprintf("stock %d has already been auctioned and is in sale", e.StockId)
}

// StockNotInSaleError is returned by secondary-market operations before
// the stock's auction has cleared.
type StockNotInSaleError struct {
	StockId uint64
}

func (e StockNotInSaleError) Error() string {
	return fmt.Sprintf("stock %d is not in sale", e.StockId)
}

// AlreadyResolvedError is returned when cancelling an order that has
// already been filled or cancelled.
type AlreadyResolvedError struct {
	OrderId uint64
}

func (e AlreadyResolvedError) Error() string {
	return fmt.Sprintf("order %d has already been resolved", e.OrderId)
}

// NotEnoughFundsError is returned when the attached payment does not
// cover the operation.
type NotEnoughFundsError struct {
	Sent     uint64
	Required uint64
}

func (e NotEnoughFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: sent %d, required %d", e.Sent, e.Required)
}

// NotEnoughSharesError is returned when the caller holds fewer shares
// than the operation needs.
type NotEnoughSharesError struct {
	Have uint64
	Need uint64
}

func (e NotEnoughSharesError) Error() string {
	return fmt.Sprintf("insufficient shares: have %d, need %d", e.Have, e.Need)
}

// BidTooLowError is returned when a bid's price is below the minimum
// acceptable price for its size.
type BidTooLowError struct {
	Price    uint64
	MinPrice uint64
}

func (e BidTooLowError) Error() string {
	return fmt.Sprintf("bid price %d too low, minimum price is %d", e.Price, e.MinPrice)
}

// SlippageExceededError is returned when a quick trade's realized price
// would cross its slippage bound. The whole operation is aborted.
type SlippageExceededError struct{}

func (SlippageExceededError) Error() string {
	return "price exceeded slippage tolerance"
}

// NotEnoughVolumeError is returned when the open book on the opposite
// side cannot absorb the requested size. It is distinct from a
// slippage failure.
type NotEnoughVolumeError struct {
	Side      string // "buy" or "sell": the side of the book that is short
	Requested uint64
	Available uint64
}

func (e NotEnoughVolumeError) Error() string {
	return fmt.Sprintf("not enough %s orders to fill %d shares, only %d available",
		e.Side, e.Requested, e.Available)
}
