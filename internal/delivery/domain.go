package delivery

import "time"

// EntityType distinguishes person and organization account holders. The
// values match the ENTITY_TYPE column in the core banking schema.
type EntityType string

const (
	// EntityPerson is a natural-person account holder.
	EntityPerson EntityType = "pers"
	// EntityOrg is an organization account holder.
	EntityOrg EntityType = "org"
)

// Result tags the outcome of one attempted userfield update.
type Result string

const (
	// ResultSuccess marks a row confirmed updated.
	ResultSuccess Result = "Success"
	// ResultFail marks a row the database reported an error for, or one it
	// did not confirm.
	ResultFail Result = "Fail"
)

// EntityRecord is one closed account selected for a delivery method update.
// Immutable once fetched.
type EntityRecord struct {
	EntityNbr  int64
	AcctNbr    string
	EntityType EntityType
	CloseDate  time.Time
}

// Outcome pairs an EntityRecord with its update result. The driver error
// message, when present, is carried for the report and alert only.
type Outcome struct {
	EntityRecord
	Result Result
	ErrMsg string
}

// reportDateLayout is how close dates appear in the CSV report and alert.
const reportDateLayout = "2006-01-02"

// row renders the outcome as a report row.
func (o Outcome) row() []string {
	return []string{
		formatInt(o.EntityNbr),
		o.AcctNbr,
		string(o.EntityType),
		o.CloseDate.Format(reportDateLayout),
		string(o.Result),
	}
}

// CloseDateString exposes the formatted close date to the alert template.
func (o Outcome) CloseDateString() string {
	return o.CloseDate.Format(reportDateLayout)
}
