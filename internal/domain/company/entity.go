package company

import "time"

// CompanyType distinguishes how a company bills: tutor_group companies bill
// students for tutor-led sessions, individual_group companies bill self-serve
// individuals.
type CompanyType string

const (
	CompanyTypeTutorGroup      CompanyType = "tutor_group"
	CompanyTypeIndividualGroup CompanyType = "individual_group"
)

// Admin is the company owner who triggers payroll runs and receives the
// profit margin.
type Admin struct {
	ID          string
	Name        string
	Email       string
	CompanyCode string
	CompanyType CompanyType
	// LastPayoutDate is nil until the first completed payroll; its absence
	// switches hour accumulation to unbounded mode.
	LastPayoutDate *time.Time
	SubAccountRef  string
	// PasswordHash is the bcrypt hash used for dashboard login. Empty when
	// the admin has never set a password.
	PasswordHash       string
	SubscriptionStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasActiveSubscription reports whether the admin may run payroll at all.
func (a *Admin) HasActiveSubscription() bool {
	return a.SubscriptionStatus == "active"
}

// TutorPricing is a tutor's rate card in cents. The service boundary rejects
// pay rates above the charge rate; the core trusts whatever is stored.
type TutorPricing struct {
	PricePerSessionCents int64
	PayPerHourCents      int64
}

// Tutor is a teaching member of the company roster.
type Tutor struct {
	ID            string
	Name          string
	CompanyCode   string
	Pricing       TutorPricing
	SubAccountRef string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Student is a billable roster member. TutorID is the preferred reference to
// the tutor who teaches them; TutorName survives for records created before
// ids were stamped and is only used as a resolution fallback.
type Student struct {
	ID          string
	Name        string
	CompanyCode string
	TutorID     string
	TutorName   string
	// SessionStarts and SessionEnds are parallel lists of completed session
	// boundaries. Lengths may disagree on dirty data; consumers pair them
	// positionally and ignore the tail.
	SessionStarts           []time.Time
	SessionEnds             []time.Time
	CustomerRef             string
	HasDefaultPaymentMethod bool
	PendingDiscountRef      string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
