package validation

import "net/mail"

// EmailValid reports whether addr is a syntactically valid bare address.
func EmailValid(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

// EmailChange validates a new address with its confirmation field.
func EmailChange(email, confirm string) FieldErrors {
	fe := FieldErrors{}
	if email == "" {
		fe["email"] = MsgRequired
	} else if !EmailValid(email) {
		fe["email"] = MsgEmailInvalid
	}
	if confirm == "" {
		fe["email_confirm"] = MsgRequired
	} else if email != "" && email != confirm {
		fe["email_confirm"] = MsgMismatch
	}
	return fe
}
