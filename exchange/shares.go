package exchange

import (
	"fmt"

	"github.com/famewire/famestock-server/models"
	"github.com/famewire/famestock-server/store"
)

// The share ledger: pure bookkeeping over the unique Share row per
// (stock, owner) pair.

// creditShares creates or increments the owner's balance row.
func creditShares(st store.Store, stockId uint64, owner string, n uint64) error {
	share, err := st.ShareByStockAndOwner(stockId, owner)
	if err == store.ErrNotFound {
		return st.CreateShare(&models.Share{
			StockId:    stockId,
			Owner:      owner,
			NoOfShares: n,
		})
	}
	if err != nil {
		return err
	}

	share.NoOfShares += n
	return st.SaveShare(share)
}

// debitShares decrements the owner's balance row. Callers must have
// checked the balance first: an insufficient balance here means a
// broken invariant, not a user error, so the operation aborts.
func debitShares(st store.Store, stockId uint64, owner string, n uint64) error {
	share, err := st.ShareByStockAndOwner(stockId, owner)
	if err == store.ErrNotFound {
		return fmt.Errorf("debit of %d shares from %s in stock %d: no balance row", n, owner, stockId)
	}
	if err != nil {
		return err
	}

	if share.NoOfShares < n {
		return fmt.Errorf("debit of %d shares from %s in stock %d: balance is %d",
			n, owner, stockId, share.NoOfShares)
	}

	share.NoOfShares -= n
	return st.SaveShare(share)
}
