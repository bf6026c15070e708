package user

import "time"

// User is the only persisted entity: one record per email
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	IsPremium             bool      `json:"isPremium"`
	BillingCustomerID     *string   `json:"billingCustomerId"`
	BillingSubscriptionID *string   `json:"billingSubscriptionId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// HasBillingCustomer reports whether a billing customer is on record
func (u *User) HasBillingCustomer() bool {
	return u.BillingCustomerID != nil && *u.BillingCustomerID != ""
}

// GrantPremium marks the user premium under the given subscription
func (u *User) GrantPremium(subscriptionID string) {
	u.IsPremium = true
	u.BillingSubscriptionID = &subscriptionID
}

// RevokePremium clears premium status and the subscription reference
func (u *User) RevokePremium() {
	u.IsPremium = false
	u.BillingSubscriptionID = nil
}

// SubscriptionID returns the subscription id or ""
func (u *User) SubscriptionID() string {
	if u.BillingSubscriptionID == nil {
		return ""
	}
	return *u.BillingSubscriptionID
}

// Clone returns a deep copy, so stores and session snapshots never share pointers
func (u *User) Clone() *User {
	c := *u
	if u.BillingCustomerID != nil {
		v := *u.BillingCustomerID
		c.BillingCustomerID = &v
	}
	if u.BillingSubscriptionID != nil {
		v := *u.BillingSubscriptionID
		c.BillingSubscriptionID = &v
	}
	return &c
}
