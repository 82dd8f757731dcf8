package metadata

import "fmt"

// TransactionType classifies an asset_history entry. The set is closed;
// values are validated at construction, not at query time.
type TransactionType string

const (
	TypePurchase    TransactionType = "Purchase"
	TypeTransfer    TransactionType = "Transfer"
	TypeTransferOut TransactionType = "Transfer_Out"
	TypeTransferIn  TransactionType = "Transfer_In"
	TypeAssignment  TransactionType = "Assignment"
	TypeExpenditure TransactionType = "Expenditure"
	TypeReturn      TransactionType = "Return"
	TypeDisposal    TransactionType = "Disposal"
)

func NewTransactionType(value string) (TransactionType, error) {
	t := TransactionType(value)
	if !t.isValid() {
		return "", fmt.Errorf("invalid transaction type: %s", value)
	}
	return t, nil
}

func (t TransactionType) isValid() bool {
	switch t {
	case TypePurchase, TypeTransfer, TypeTransferOut, TypeTransferIn,
		TypeAssignment, TypeExpenditure, TypeReturn, TypeDisposal:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}
