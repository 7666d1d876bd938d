package models

// FundTransfer is an intent to move funds out of the exchange. The
// engine never holds balances itself: every operation routes the whole
// attached payment into transfer intents (seller proceeds, outbid
// refunds, excess refunds) that the hosting runtime settles after the
// operation commits. A failed operation discards its intents.
type FundTransfer struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// TotalTransferred sums the amounts of a batch of transfer intents.
func TotalTransferred(transfers []FundTransfer) uint64 {
	var total uint64
	for _, t := range transfers {
		total += t.Amount
	}
	return total
}
