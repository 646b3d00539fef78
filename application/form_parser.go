package application

import "strings"

const (
	registrationNameLabel = "Name:"
	registrationAgeLabel  = "Age:"
	manualReviewLabel     = "Manual:"
)

// RegistrationForm holds the fields of a "Name: <text>, Age: <text>" submission
type RegistrationForm struct {
	Name string
	Age  string
}

// ParseRegistration extracts name and age from a registration form.
// The text must split on commas into exactly two segments, each opening with one
// of the labels. Labels may come in either order but each must appear once.
func ParseRegistration(text string) (RegistrationForm, bool) {
	segments := strings.Split(text, ",")
	if len(segments) != 2 {
		return RegistrationForm{}, false
	}

	var (
		form            RegistrationForm
		hasName, hasAge bool
	)
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		switch {
		case strings.HasPrefix(segment, registrationNameLabel) && !hasName:
			form.Name = strings.TrimSpace(strings.TrimPrefix(segment, registrationNameLabel))
			hasName = true
		case strings.HasPrefix(segment, registrationAgeLabel) && !hasAge:
			form.Age = strings.TrimSpace(strings.TrimPrefix(segment, registrationAgeLabel))
			hasAge = true
		default:
			return RegistrationForm{}, false
		}
	}

	if form.Name == "" || form.Age == "" {
		return RegistrationForm{}, false
	}

	return form, true
}

// ParseManualReview returns the text after a leading "Manual:" label.
// The label is case-sensitive and the remainder must not be blank.
func ParseManualReview(text string) (string, bool) {
	if !strings.HasPrefix(text, manualReviewLabel) {
		return "", false
	}

	data := strings.TrimSpace(strings.TrimPrefix(text, manualReviewLabel))
	if data == "" {
		return "", false
	}

	return data, true
}
