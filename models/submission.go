// models/submission.go
package models

import (
	"errors"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

var submissionValidator = validator.New()

// SubmissionVariant is one channel's strongly-typed commitment form.
// Each channel carries exactly the fields its form shows and its own
// mandatory-field rules; there is no shared loosely-typed record with
// optional everything.
type SubmissionVariant interface {
	// Validate returns user-facing messages for every failed rule.
	// An empty slice means the submission may be appended.
	Validate() []string
	// Apply copies the form fields onto the record being appended.
	Apply(rec *CommitmentRecord)
}

// AssociationSubmission is the Association channel form.
type AssociationSubmission struct {
	Association         string  `json:"association" validate:"required" label:"Association"`
	Product             string  `json:"product" validate:"required" label:"Product"`
	ClientName          string  `json:"clientName" validate:"required" label:"Client Name"`
	DealID              string  `json:"dealId" validate:"required" label:"Deal ID"`
	CommitmentNOP       float64 `json:"commitmentNop" validate:"gt=0" label:"Commitment NOP"`
	ClosureDate         string  `json:"closureDate" validate:"required" label:"Expected Closure Date"`
	DealsCommitment     string  `json:"dealsCommitment"`
	DealsCreatedProduct string  `json:"dealsCreatedProduct"`
	DealAssignedTo      string  `json:"dealAssignedTo"`
	Followups           string  `json:"followups"`
}

func (s *AssociationSubmission) Validate() []string { return validationMessages(s) }

func (s *AssociationSubmission) Apply(rec *CommitmentRecord) {
	rec.Association = s.Association
	rec.Product = s.Product
	rec.ClientName = s.ClientName
	rec.DealID = s.DealID
	rec.CommitmentNOP = s.CommitmentNOP
	rec.ClosureDate = coerceClosureDate(s.ClosureDate)
	rec.DealsCommitment = s.DealsCommitment
	rec.DealsCreatedProduct = s.DealsCreatedProduct
	rec.DealAssignedTo = s.DealAssignedTo
	rec.Followups = s.Followups
}

// RenewalSubmission is the Renewal channel form. Client name, deal ID
// and closure date are intentionally not collected for renewals.
type RenewalSubmission struct {
	Association         string  `json:"association" validate:"required" label:"Association"`
	Product             string  `json:"product" validate:"required" label:"Product"`
	CommitmentNOP       float64 `json:"commitmentNop" validate:"gt=0" label:"Renewal Commitment"`
	DealsCommitment     string  `json:"dealsCommitment" validate:"required" label:"Deals Commitment"`
	DealsCreatedProduct string  `json:"dealsCreatedProduct" validate:"required" label:"Deals Created Product"`
	DealAssignedTo      string  `json:"dealAssignedTo" validate:"required" label:"Deal Assigned To"`
	Followups           string  `json:"followups"`
}

func (s *RenewalSubmission) Validate() []string { return validationMessages(s) }

func (s *RenewalSubmission) Apply(rec *CommitmentRecord) {
	rec.Association = s.Association
	rec.Product = s.Product
	rec.CommitmentNOP = s.CommitmentNOP
	rec.DealsCommitment = s.DealsCommitment
	rec.DealsCreatedProduct = s.DealsCreatedProduct
	rec.DealAssignedTo = s.DealAssignedTo
	rec.Followups = s.Followups
}

// CrossSellSubmission is the Cross Sell channel form.
type CrossSellSubmission struct {
	Product         string  `json:"product" validate:"required" label:"Product"`
	SubProduct      string  `json:"subProduct"`
	ClientName      string  `json:"clientName" validate:"required" label:"Client Name"`
	DealID          string  `json:"dealId" validate:"required" label:"Deal ID"`
	ExpectedPremium float64 `json:"expectedPremium" validate:"gt=0" label:"Expected Premium"`
	ClosureDate     string  `json:"closureDate" validate:"required" label:"Expected Closure Date"`
	Followups       string  `json:"followups"`
}

func (s *CrossSellSubmission) Validate() []string { return validationMessages(s) }

func (s *CrossSellSubmission) Apply(rec *CommitmentRecord) {
	rec.Product = s.Product
	rec.SubProduct = s.SubProduct
	rec.ClientName = s.ClientName
	rec.DealID = s.DealID
	rec.ExpectedPremium = s.ExpectedPremium
	rec.ClosureDate = coerceClosureDate(s.ClosureDate)
	rec.Followups = s.Followups
}

// AffiliateSubmission is the Affiliate channel form.
type AffiliateSubmission struct {
	Product         string  `json:"product" validate:"required" label:"Product"`
	SubProduct      string  `json:"subProduct"`
	MeetingCount    float64 `json:"meetingCount" validate:"gt=0" label:"Meeting Count"`
	ExpectedPremium float64 `json:"expectedPremium" validate:"gt=0" label:"Expected Premium"`
	MeetingType     string  `json:"meetingType" validate:"required" label:"Meeting Type"`
	ClosureDate     string  `json:"closureDate" validate:"required" label:"Expected Closure Date"`
	Followups       string  `json:"followups"`
}

func (s *AffiliateSubmission) Validate() []string { return validationMessages(s) }

func (s *AffiliateSubmission) Apply(rec *CommitmentRecord) {
	rec.Product = s.Product
	rec.SubProduct = s.SubProduct
	rec.MeetingCount = s.MeetingCount
	rec.ExpectedPremium = s.ExpectedPremium
	rec.MeetingType = s.MeetingType
	rec.ClosureDate = coerceClosureDate(s.ClosureDate)
	rec.Followups = s.Followups
}

// AffiliateRenewalSubmission is the Affiliate Renewal channel form.
// Only the product is mandatory on this form.
type AffiliateRenewalSubmission struct {
	Product         string  `json:"product" validate:"required" label:"Product"`
	SubProduct      string  `json:"subProduct"`
	ClientName      string  `json:"clientName"`
	CommitmentNOP   float64 `json:"commitmentNop"`
	ExpectedPremium float64 `json:"expectedPremium"`
	ClosureDate     string  `json:"closureDate"`
	Followups       string  `json:"followups"`
}

func (s *AffiliateRenewalSubmission) Validate() []string { return validationMessages(s) }

func (s *AffiliateRenewalSubmission) Apply(rec *CommitmentRecord) {
	rec.Product = s.Product
	rec.SubProduct = s.SubProduct
	rec.ClientName = s.ClientName
	rec.CommitmentNOP = s.CommitmentNOP
	rec.ExpectedPremium = s.ExpectedPremium
	rec.ClosureDate = coerceClosureDate(s.ClosureDate)
	rec.Followups = s.Followups
}

// CorporateSubmission is the Corporate channel form.
type CorporateSubmission struct {
	ClientName      string  `json:"clientName" validate:"required" label:"Client Name"`
	ClientMobile    string  `json:"clientMobile" validate:"required" label:"Client Mobile"`
	CaseType        string  `json:"caseType"`
	Product         string  `json:"product" validate:"required" label:"Product"`
	SubProduct      string  `json:"subProduct"`
	MeetingCount    float64 `json:"meetingCount" validate:"gt=0" label:"Meeting Count"`
	MeetingType     string  `json:"meetingType" validate:"required" label:"Meeting Type"`
	ExpectedPremium float64 `json:"expectedPremium" validate:"gt=0" label:"Expected Premium"`
	ClosureDate     string  `json:"closureDate" validate:"required" label:"Expected Closure Date"`
	Followups       string  `json:"followups"`
}

func (s *CorporateSubmission) Validate() []string { return validationMessages(s) }

func (s *CorporateSubmission) Apply(rec *CommitmentRecord) {
	rec.ClientName = s.ClientName
	rec.ClientMobile = s.ClientMobile
	rec.CaseType = s.CaseType
	rec.Product = s.Product
	rec.SubProduct = s.SubProduct
	rec.MeetingCount = s.MeetingCount
	rec.MeetingType = s.MeetingType
	rec.ExpectedPremium = s.ExpectedPremium
	rec.ClosureDate = coerceClosureDate(s.ClosureDate)
	rec.Followups = s.Followups
}

// NewSubmissionVariant returns the empty form for a channel. The switch
// is exhaustive over the Channel enum; callers must have gone through
// ParseChannel first.
func NewSubmissionVariant(ch Channel) (SubmissionVariant, error) {
	switch ch {
	case ChannelAssociation:
		return &AssociationSubmission{}, nil
	case ChannelRenewal:
		return &RenewalSubmission{}, nil
	case ChannelCrossSell:
		return &CrossSellSubmission{}, nil
	case ChannelAffiliate:
		return &AffiliateSubmission{}, nil
	case ChannelAffiliateRenewal:
		return &AffiliateRenewalSubmission{}, nil
	case ChannelCorporate:
		return &CorporateSubmission{}, nil
	}
	return nil, errors.New("no submission form for channel " + string(ch))
}

// validationMessages runs the struct validator and turns field errors
// into the user-facing messages the frontend lists above the form.
func validationMessages(v interface{}) []string {
	err := submissionValidator.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"Invalid submission"}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		label := labelFor(v, fe.StructField())
		switch fe.Tag() {
		case "gt":
			msgs = append(msgs, label+" must be greater than 0")
		default:
			msgs = append(msgs, label+" is mandatory")
		}
	}
	return msgs
}

// labelFor reads the label struct tag so validation messages use the
// form's field names rather than Go identifiers.
func labelFor(v interface{}, field string) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(field); ok {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
	}
	return field
}

// coerceClosureDate parses the form's date string, leaving the zero
// time on failure. The required tags catch missing values; a malformed
// value degrades the same way unparseable sheet cells do.
func coerceClosureDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
