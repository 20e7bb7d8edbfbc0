package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/utils"
)

// IssueType represents the kind of validation problem
type IssueType string

const (
	IssueRequired         IssueType = "required"
	IssueInvalidFormat    IssueType = "invalid_format"
	IssueOutOfRange       IssueType = "out_of_range"
	IssueInvalidValue     IssueType = "invalid_value"
	IssueOverlappingSleep IssueType = "overlapping_sleep"
)

// Issue is a single problem found in a submission
type Issue struct {
	Type        IssueType
	Field       string // JSON field name (if applicable)
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Record IDs or time ranges involved
}

// ValidationResult contains all detected issues
type ValidationResult struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (vr *ValidationResult) HasIssues() bool {
	return len(vr.Issues) > 0
}

// FormatReport returns a human-readable report of all issues
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasIssues() {
		return "No issues detected."
	}

	var b strings.Builder
	b.WriteString("Validation failed:\n")
	for _, issue := range vr.Issues {
		fmt.Fprintf(&b, "- %s\n", issue.Description)
	}
	return b.String()
}

// Err returns the result as an error, or nil when there are no issues.
func (vr ValidationResult) Err() error {
	if !vr.HasIssues() {
		return nil
	}
	return &Error{Result: vr}
}

// Error wraps a failed ValidationResult.
type Error struct {
	Result ValidationResult
}

func (e *Error) Error() string {
	descs := make([]string, len(e.Result.Issues))
	for i, issue := range e.Result.Issues {
		descs[i] = issue.Description
	}
	return strings.Join(descs, "; ")
}

// IsValidation reports whether err came from a failed client-side check.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Validator checks request bodies before they are sent
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator with the date and clock rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "yaml"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	mustRegister(v, "datefmt", func(fl validator.FieldLevel) bool {
		return utils.ValidateDateFormat(fl.Field().String())
	})
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		return utils.ValidateTimeFormat(fl.Field().String())
	})
	return &Validator{v: v}
}

// mustRegister panics on a bad rule; rules are fixed at build time.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q validation: %v", tag, err))
	}
}

var defaultValidator = New()

// Check validates s with the shared Validator and returns an *Error on failure.
func Check(s any) error {
	return defaultValidator.Struct(s).Err()
}

// Struct validates s against its validate tags.
func (v *Validator) Struct(s any) ValidationResult {
	var result ValidationResult

	err := v.v.Struct(s)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Issues = append(result.Issues, Issue{Type: IssueInvalidValue, Description: err.Error()})
		return result
	}

	for _, fe := range fieldErrs {
		result.Issues = append(result.Issues, describe(fe))
	}
	return result
}

func describe(fe validator.FieldError) Issue {
	field := fe.Field()
	issue := Issue{Field: field}

	switch fe.Tag() {
	case "required":
		issue.Type = IssueRequired
		issue.Description = fmt.Sprintf("%s is required", field)
	case "datefmt":
		issue.Type = IssueInvalidFormat
		issue.Description = fmt.Sprintf("%s must be a date in YYYY-MM-DD format, got %q", field, fe.Value())
	case "clock":
		issue.Type = IssueInvalidFormat
		issue.Description = fmt.Sprintf("%s must be a time in HH:MM format, got %q", field, fe.Value())
	case "email":
		issue.Type = IssueInvalidFormat
		issue.Description = fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		issue.Type = IssueInvalidValue
		issue.Description = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		issue.Type = IssueOutOfRange
		issue.Description = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		issue.Type = IssueOutOfRange
		issue.Description = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lt":
		issue.Type = IssueOutOfRange
		issue.Description = fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte", "max":
		issue.Type = IssueOutOfRange
		issue.Description = fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		issue.Type = IssueInvalidValue
		issue.Description = fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
	return issue
}

// ValidateSleepLogs reports sleep segments that overlap another segment
// starting on the same day. Overnight segments are compared in the hours of
// their start day.
func (v *Validator) ValidateSleepLogs(logs []models.SleepLog) ValidationResult {
	var result ValidationResult

	type segment struct {
		log        models.SleepLog
		start, end float64
	}
	byDate := make(map[string][]segment)
	for _, l := range logs {
		start, end, ok := l.Segment()
		if !ok {
			continue
		}
		byDate[l.Date] = append(byDate[l.Date], segment{log: l, start: start, end: end})
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, date := range dates {
		segs := byDate[date]
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].start < segs[j].start })
		for i := 0; i < len(segs); i++ {
			for j := i + 1; j < len(segs); j++ {
				if !segmentsOverlap(segs[i].start, segs[i].end, segs[j].start, segs[j].end) {
					continue
				}
				a, b := segs[i].log, segs[j].log
				result.Issues = append(result.Issues, Issue{
					Type: IssueOverlappingSleep,
					Description: fmt.Sprintf("%s %s-%s overlaps %s %s-%s on %s",
						a.SleepType, a.StartTime, a.EndTime, b.SleepType, b.StartTime, b.EndTime, date),
					Date:  date,
					Items: []string{a.StartTime + "-" + a.EndTime, b.StartTime + "-" + b.EndTime},
				})
			}
		}
	}
	return result
}

func segmentsOverlap(start1, end1, start2, end2 float64) bool {
	return start1 < end2 && start2 < end1
}
