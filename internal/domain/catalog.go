package domain

// SeedQuestion is a catalog question before it has been assigned an id.
type SeedQuestion struct {
	Text    string
	Type    QuestionType
	Options []string
}

// DefaultCatalog returns the questions inserted on first start, in display order.
func DefaultCatalog() []SeedQuestion {
	return []SeedQuestion{
		{
			Text:    "How satisfied are you with our service?",
			Type:    QuestionTypeMultipleChoice,
			Options: []string{"Very Satisfied", "Satisfied", "Neutral", "Dissatisfied", "Very Dissatisfied"},
		},
		{
			Text:    "Would you recommend us to others?",
			Type:    QuestionTypeMultipleChoice,
			Options: []string{"Definitely Yes", "Probably Yes", "Maybe", "Probably No", "Definitely No"},
		},
		{
			Text:    "How often do you use our product?",
			Type:    QuestionTypeMultipleChoice,
			Options: []string{"Daily", "Weekly", "Monthly", "Rarely", "Never"},
		},
		{Text: "What is your age group?", Type: QuestionTypeText},
		{Text: "How did you hear about us?", Type: QuestionTypeText},
		{Text: "What features do you use most?", Type: QuestionTypeText},
		{Text: "How would you rate our customer support?", Type: QuestionTypeText},
		{Text: "What improvements would you suggest?", Type: QuestionTypeText},
		{Text: "How likely are you to continue using our service?", Type: QuestionTypeText},
		{Text: "What is your overall experience rating?", Type: QuestionTypeText},
	}
}

// SeedUser is an account inserted on first start. Passwords are hashed before storage.
type SeedUser struct {
	Username string
	Password string
}

// DefaultUsers returns the accounts inserted on first start.
func DefaultUsers() []SeedUser {
	return []SeedUser{
		{Username: "admin", Password: "password"},
		{Username: "user", Password: "123"},
	}
}
