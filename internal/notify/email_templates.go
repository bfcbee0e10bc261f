package notify

import "fmt"

func verifyAccountTemplate(name, verifyURL, appName string) (string, string) {
	subject := "Account Verification"
	body := fmt.Sprintf(`Hi %s,

Confirm your email address to activate your %s account:
%s

The code in this link expires in 10 minutes. If you didn't sign up, you can
safely ignore this email.

Best,
The %s Team`, name, appName, verifyURL, appName)

	return subject, body
}

func forgetPasswordTemplate(name, resetURL, appName string) (string, string) {
	subject := "Forget Password"
	body := fmt.Sprintf(`Hi %s,

You requested to reset your %s password. Use this link to choose a new one:
%s

The code in this link expires in 10 minutes and can only be used once.

If you didn't request this, ignore this email. Your password won't change.

Best,
The %s Team`, name, appName, resetURL, appName)

	return subject, body
}
