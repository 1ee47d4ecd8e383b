package domain

// PaymentMethodHelloasso is the payment method recorded on accounting
// records created from provider notifications.
const PaymentMethodHelloasso = "helloasso"

// Contribution is the accounting record the host application creates for
// a settled payment. The host owns validation (tier existence, member
// existence, period overlap); the bridge only derives the parameters.
type Contribution struct {
	TierID        int
	MemberID      int
	Amount        float64 // major currency units
	PaymentMethod string
	Extension     string // membership extension setting, forwarded when set
}

// ContributionFromNotification derives accounting parameters from a
// settled, non-anonymous notification.
func ContributionFromNotification(n *Notification, extension string) Contribution {
	return Contribution{
		TierID:        int(*n.Metadata.ItemID),
		MemberID:      int(*n.Metadata.MemberID),
		Amount:        float64(n.Data.Amount) / 100,
		PaymentMethod: PaymentMethodHelloasso,
		Extension:     extension,
	}
}
