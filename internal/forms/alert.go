package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"whistleline/internal/models"
	"whistleline/pkg/response"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9\s\-\+\(\)]{10,20}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// AlertForm holds the raw multipart field values of a submission.
type AlertForm struct {
	Title       string
	Description string
	Category    string
	Urgency     string
	Evidence    string
	Anonymous   string
	Name        string
	Contact     string
}

// Validate checks every rule before anything is persisted and returns
// either a fully resolved submission or the complete list of field
// errors.
func (f AlertForm) Validate() (*models.AlertSubmission, []response.FieldError) {
	var errs []response.FieldError
	fail := func(param, msg string, value interface{}) {
		errs = append(errs, response.FieldError{Param: param, Msg: msg, Value: value, Location: "body"})
	}

	// Bounds count characters, not bytes; accented input is the norm.
	title := strings.TrimSpace(f.Title)
	if n := utf8.RuneCountInString(title); n < 5 || n > 255 {
		fail("title", "title must be between 5 and 255 characters", f.Title)
	}

	description := strings.TrimSpace(f.Description)
	if utf8.RuneCountInString(description) < 20 {
		fail("description", "description must be at least 20 characters", f.Description)
	}

	category := strings.TrimSpace(f.Category)
	if utf8.RuneCountInString(category) > 100 {
		fail("category", "category must not exceed 100 characters", f.Category)
	}

	urgency := models.UrgencyMedium
	if f.Urgency != "" {
		urgency = models.Urgency(f.Urgency)
		if !urgency.Valid() {
			fail("urgency", "invalid urgency level", f.Urgency)
		}
	}

	evidence := strings.TrimSpace(f.Evidence)
	if utf8.RuneCountInString(evidence) > 1000 {
		fail("evidence", "evidence description must not exceed 1000 characters", f.Evidence)
	}

	// Submissions are anonymous unless explicitly opted out.
	anonymous := true
	switch f.Anonymous {
	case "", "true":
		anonymous = true
	case "false":
		anonymous = false
	default:
		fail("anonymous", "anonymous must be a boolean", f.Anonymous)
	}

	var name string
	var contact *models.ReporterContact
	if !anonymous {
		name = strings.TrimSpace(f.Name)
		if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
			fail("name", "name must be between 2 and 100 characters", f.Name)
		}

		raw := strings.TrimSpace(f.Contact)
		if raw == "" {
			fail("contact", "a contact is required when the alert is not anonymous", f.Contact)
		} else if strings.Contains(raw, "@") {
			if !emailPattern.MatchString(raw) {
				fail("contact", "contact must be a valid email or phone number", f.Contact)
			} else {
				contact = &models.ReporterContact{Kind: models.ContactEmail, Value: raw}
			}
		} else {
			if !phonePattern.MatchString(raw) {
				fail("contact", "contact must be a valid email or phone number", f.Contact)
			} else {
				contact = &models.ReporterContact{Kind: models.ContactPhone, Value: nonDigits.ReplaceAllString(raw, "")}
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &models.AlertSubmission{
		Title:       title,
		Description: description,
		Category:    category,
		Urgency:     urgency,
		Evidence:    evidence,
		Anonymous:   anonymous,
		Name:        name,
		Contact:     contact,
	}, nil
}
