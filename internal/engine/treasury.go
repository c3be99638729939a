package engine

// TreasuryPolicy sets the opening balance and whether debits may overdraw.
type TreasuryPolicy struct {
	Initial       int
	AllowNegative bool
}

type Treasury struct {
	balance       int
	allowNegative bool
}

func NewTreasury(policy TreasuryPolicy) *Treasury {
	return &Treasury{balance: policy.Initial, allowNegative: policy.AllowNegative}
}

func (t *Treasury) Balance() int { return t.balance }

func (t *Treasury) Debit(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if !t.allowNegative && t.balance < amount {
		return ErrInsufficientFunds
	}
	t.balance -= amount
	return nil
}

func (t *Treasury) Credit(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	t.balance += amount
	return nil
}

func (t *Treasury) adjust(delta int) { t.balance += delta }
