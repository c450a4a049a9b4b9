package atelier

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is a persisted user identity. The password hash and the API key
// never leave the server: they are excluded both from JSON and from the
// detail projection.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Login         string     `bun:"login,notnull,unique" json:"login,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"hash,notnull" json:"-"`
	APIKey        string     `bun:"api_key,notnull,unique" json:"-"`
	RoleID        int        `bun:"role_id,notnull" json:"role_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`

	Role       *Role       `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
	Operator   *Operator   `bun:"rel:has-one,join:id=account_id" json:"operator,omitempty"`
	Client     *Client     `bun:"rel:has-one,join:id=account_id" json:"client,omitempty"`
	Image      *Image      `bun:"rel:has-one,join:id=account_id" json:"image,omitempty"`
	Statistics *Statistics `bun:"rel:has-one,join:id=account_id" json:"statistics,omitempty"`
}

// Role is one of the closed set of privilege levels, see roles.go.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            int    `bun:"id,pk" json:"id,omitempty"`
	Name          string `bun:"name,notnull,unique" json:"name,omitempty"`
}

// Operator is the contractor profile attached to accounts that signed up
// with the operator flag.
type Operator struct {
	bun.BaseModel `bun:"table:operators,alias:opr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`

	ContractorCommissions []*Commission `bun:"rel:has-many,join:id=contractor_id" json:"contractor_commissions,omitempty"`
}

// Client is the author profile of an account that orders commissions.
type Client struct {
	bun.BaseModel `bun:"table:clients,alias:cli"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`

	AuthorCommissions []*Commission `bun:"rel:has-many,join:id=author_id" json:"author_commissions,omitempty"`
}

// Commission links an author (client) with a contractor (operator).
type Commission struct {
	bun.BaseModel `bun:"table:commissions,alias:com"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title" json:"title,omitempty"`
	Price         int64      `bun:"price" json:"price,omitempty"`
	AuthorID      *uuid.UUID `bun:"author_id,type:uuid" json:"author_id,omitempty"`
	ContractorID  *uuid.UUID `bun:"contractor_id,type:uuid" json:"contractor_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Image is the account avatar.
type Image struct {
	bun.BaseModel `bun:"table:images,alias:img"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	URL           string    `bun:"url" json:"url,omitempty"`
}

// Statistics tracks API usage per account key. A zeroed row is created
// together with the account at activation time.
type Statistics struct {
	bun.BaseModel    `bun:"table:statistics,alias:sta"`
	ID               uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID        uuid.UUID `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	APIKey           string    `bun:"api_key,notnull" json:"-"`
	NumberOfRequests int64     `bun:"number_of_requests,notnull,default:0" json:"number_of_requests"`
}
