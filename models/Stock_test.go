package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockPhases(t *testing.T) {
	// Unstarted: neither phase.
	s := &Stock{}
	assert.False(t, s.IsInAuction(100))
	assert.False(t, s.IsInSale(100))

	// Running auction.
	s = &Stock{AuctionStart: 100, AuctionEnd: 200}
	assert.True(t, s.IsInAuction(150))
	assert.False(t, s.IsInSale(150))

	// The boundary instant belongs to both phases: a bid at exactly
	// AuctionEnd is accepted and the secondary market is already open.
	assert.True(t, s.IsInAuction(200))
	assert.True(t, s.IsInSale(200))

	// Past the boundary only the sale remains.
	assert.False(t, s.IsInAuction(201))
	assert.True(t, s.IsInSale(201))

	// Started with no end on record yet.
	s = &Stock{AuctionStart: 100}
	assert.True(t, s.IsInAuction(1_000_000))
	assert.False(t, s.IsInSale(1_000_000))
}
