package validation

const (
	MsgFirstNameRequired = "First name is required"
	MsgFirstNameTooShort = "First name must be at least 2 characters"
	MsgFirstNameInvalid  = "First name can only contain letters"
	MsgLastNameRequired  = "Last name is required"
	MsgLastNameTooShort  = "Last name must be at least 2 characters"
	MsgLastNameInvalid   = "Last name can only contain letters"

	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Please enter a valid email address"

	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 8 characters"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordDigit     = "Password must contain at least one number"

	MsgConfirmPasswordRequired = "Please confirm your password"
	MsgPasswordMismatch        = "Passwords do not match"

	MsgAccountTypeRequired = "Please select an account type"
	MsgTermsRequired       = "You must accept the terms and conditions"
	MsgSexRequired         = "Please select your sex"
	MsgBirthdateRequired   = "Please select your birthdate"

	MsgHeightRequired = "Height is required"
	MsgHeightRange    = "Please enter a valid height (50-300 cm)"
	MsgWeightRequired = "Weight is required"
	MsgWeightRange    = "Please enter a valid weight (10-500 kg)"
	MsgInvalidNumber  = "Please enter a valid number"

	MsgBloodTypeRequired = "Please select your blood type"

	MsgTitleRequired = "Title is required"
	MsgTitleTooShort = "Title must be at least 2 characters"
	MsgFieldRequired = "Please select your medical field"

	MsgIntroductionRequired = "Introduction is required"
	MsgIntroductionTooShort = "Introduction must be at least 20 characters"
	MsgIntroductionTooLong  = "Introduction must not exceed 500 characters"

	MsgSymptomsRequired    = "Please describe your symptoms"
	MsgDescriptionRequired = "Please provide a description"
)

// Bounds for the numeric patient measurements, inclusive.
const (
	MinHeight = 50
	MaxHeight = 300
	MinWeight = 10
	MaxWeight = 500

	MinIntroductionLength = 20
	MaxIntroductionLength = 500
	MinNameLength         = 2
	MinTitleLength        = 2
	MinPasswordLength     = 8
)
