package mail

import "fmt"

func VerificationEmail(domain, email, token string) Message {
	link := fmt.Sprintf("http://%s/api/v1/auth/verify/%s", domain, token)

	return Message{
		Recipients: []string{email},
		Subject:    "Verify your email",
		Body: fmt.Sprintf(
			"<h1>Verify your Email</h1><p>Please click this <a href=\"%s\">link</a> to verify your email</p>",
			link,
		),
	}
}

func PasswordResetEmail(domain, email, token string) Message {
	link := fmt.Sprintf("http://%s/api/v1/auth/confirm-reset-password/%s", domain, token)

	return Message{
		Recipients: []string{email},
		Subject:    "Reset your password",
		Body: fmt.Sprintf(
			"<h1>Reset your Password</h1><p>Please click this <a href=\"%s\">link</a> to reset your password</p>",
			link,
		),
	}
}
