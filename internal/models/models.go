package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserBlocked UserStatus = "BLOCKED"
)

type PlanStatus string

const (
	PlanActive   PlanStatus = "ACTIVE"
	PlanInactive PlanStatus = "INACTIVE"
)

type TransactionType string

const (
	TxDeposit      TransactionType = "DEPOSIT"
	TxWithdrawal   TransactionType = "WITHDRAWAL"
	TxCommission   TransactionType = "COMMISSION"
	TxPlanPurchase TransactionType = "PLAN_PURCHASE"
	TxAdjustment   TransactionType = "ADJUSTMENT"
)

type TransactionStatus string

const (
	TxPending  TransactionStatus = "PENDING"
	TxApproved TransactionStatus = "APPROVED"
	TxRejected TransactionStatus = "REJECTED"
	TxHeld     TransactionStatus = "HELD"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

type CommissionStatus string

const (
	CommissionHeld     CommissionStatus = "HELD"
	CommissionApproved CommissionStatus = "APPROVED"
	CommissionPaid     CommissionStatus = "PAID"
	CommissionRejected CommissionStatus = "REJECTED"
)

// Bucket names one of the three wallet sub-balances.
type Bucket string

const (
	BucketAvailable Bucket = "available"
	BucketPending   Bucket = "pending"
	BucketHeld      Bucket = "held"
)

// MaxReferralDepth caps upward sponsor-chain traversal regardless of any
// plan's commission structure, so a corrupted sponsor link cannot loop.
const MaxReferralDepth = 20

type User struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FullName     string     `json:"full_name"`
	Username     string     `gorm:"uniqueIndex" json:"username"`
	Email        string     `gorm:"uniqueIndex" json:"email"`
	Password     string     `json:"-"`
	Mobile       string     `json:"mobile"`
	WhatsApp     string     `json:"whats_app,omitempty"`
	SponsorID    *string    `gorm:"index;type:varchar(36)" json:"sponsor_id"`
	ReferralCode string     `gorm:"uniqueIndex" json:"referral_code"`
	Role         Role       `gorm:"default:USER" json:"role"`
	Status       UserStatus `gorm:"default:ACTIVE" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"-"`

	Wallet *Wallet `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
}

// Wallet holds the three bucket balances. Balances only change through
// ledger operations executed inside a DB transaction; each bucket stays >= 0.
type Wallet struct {
	UserID    string  `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	Available float64 `gorm:"default:0" json:"available"`
	Pending   float64 `gorm:"default:0" json:"pending"`
	Held      float64 `gorm:"default:0" json:"held"`
}

// CommissionStructure maps referral level -> commission percentage.
// Stored as JSON; levels may be sparse (e.g. only 1 and 3 defined).
type CommissionStructure map[int]float64

func (cs CommissionStructure) Value() (driver.Value, error) {
	if cs == nil {
		return "{}", nil
	}
	b, err := json.Marshal(cs)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (cs *CommissionStructure) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*cs = CommissionStructure{}
		return nil
	default:
		return fmt.Errorf("unsupported commission structure type %T", value)
	}
	return json.Unmarshal(data, cs)
}

type Plan struct {
	ID                  string              `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title               string              `json:"title"`
	Price               float64             `json:"price"`
	Duration            int                 `json:"duration"` // days
	CommissionStructure CommissionStructure `gorm:"type:text" json:"commission_structure"`
	Status              PlanStatus          `gorm:"default:ACTIVE" json:"status"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"-"`
}

// UserPlan is the ownership record created once per purchase and never
// mutated. "Active" is derived from ExpiresAt, not stored.
type UserPlan struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"index;type:varchar(36)" json:"user_id"`
	PlanID      string    `gorm:"index;type:varchar(36)" json:"plan_id"`
	PurchasedAt time.Time `json:"purchased_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (up *UserPlan) Active(now time.Time) bool {
	return up.ExpiresAt.After(now)
}

// Transaction is an append-only audit entry. Only Status ever changes,
// and only PENDING/HELD rows transition.
type Transaction struct {
	ID          string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string            `gorm:"index;type:varchar(36)" json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"` // signed: debits are negative
	Status      TransactionStatus `gorm:"default:PENDING" json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Commission records one credit to a beneficiary for one level of one
// plan purchase. TransactionID links the mirrored COMMISSION transaction
// so a status transition flips exactly one ledger row.
type Commission struct {
	ID            string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string           `gorm:"index;type:varchar(36)" json:"user_id"`      // beneficiary
	FromUserID    string           `gorm:"index;type:varchar(36)" json:"from_user_id"` // buyer
	Level         int              `json:"level"`
	Amount        float64          `json:"amount"`
	PlanID        string           `gorm:"type:varchar(36)" json:"plan_id"`
	Status        CommissionStatus `gorm:"default:HELD" json:"status"`
	TransactionID string           `gorm:"type:varchar(36)" json:"transaction_id"`
	CreatedAt     time.Time        `json:"created_at"`
}

type DepositRequest struct {
	ID            string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string        `gorm:"index;type:varchar(36)" json:"user_id"`
	Amount        float64       `json:"amount"`
	Method        string        `json:"method"`
	ReferenceID   string        `json:"reference_id,omitempty"`
	Status        RequestStatus `gorm:"default:PENDING" json:"status"`
	TransactionID string        `gorm:"type:varchar(36)" json:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"-"`
}

type WithdrawalRequest struct {
	ID             string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string        `gorm:"index;type:varchar(36)" json:"user_id"`
	Amount         float64       `json:"amount"`
	Method         string        `json:"method"`
	AccountDetails AccountDetails `gorm:"type:text" json:"account_details"`
	Status         RequestStatus `gorm:"default:PENDING" json:"status"`
	TransactionID  string        `gorm:"type:varchar(36)" json:"transaction_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"-"`
}

// AccountDetails holds payout destination fields (bank account, UPI id, ...).
type AccountDetails map[string]string

func (ad AccountDetails) Value() (driver.Value, error) {
	if ad == nil {
		return "{}", nil
	}
	b, err := json.Marshal(ad)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (ad *AccountDetails) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*ad = AccountDetails{}
		return nil
	default:
		return fmt.Errorf("unsupported account details type %T", value)
	}
	return json.Unmarshal(data, ad)
}

// GenealogyNode is one node of the downward referral tree.
type GenealogyNode struct {
	User     GenealogyUser    `json:"user"`
	Level    int              `json:"level"`
	Children []*GenealogyNode `json:"children"`
}

type GenealogyUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Ancestor is one step of an upward sponsor-chain walk, starting at
// level 1 for the immediate sponsor.
type Ancestor struct {
	User  *User
	Level int
}
