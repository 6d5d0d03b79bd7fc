package session

// User-facing messages.
const (
	msgUnreachable        = "Cannot connect to server. Please check your connection."
	msgInvalidCredentials = "Invalid credentials. Please check your email and password."
	msgBlocked            = "Your account is blocked or has not been verified."
	msgBadRequest         = "Please check the details you entered."
	msgLoginFailed        = "Login failed. Please try again."
	msgLoginNoToken       = "Login failed. The server did not return a session."

	msgEmailTaken      = "This email is already registered. Please login instead."
	msgVehicleTaken    = "This vehicle number is already registered. Please use a different vehicle number."
	msgDuplicate       = "This information is already registered. Please check your details."
	msgRegisterFailed  = "Registration failed. Please try again."
	msgRegisteredAdmin = "Admin registration successful! Please login to continue."
	msgRegisteredUser  = "Registration successful! Please check your email to verify your account before logging in."

	msgLoggedOut      = "Logged out successfully!"
	msgLogoutStorage  = "Logged out, but the saved session could not be removed from this device."
	msgLoginRequired  = "Please login to continue."
	msgProfileUpdated = "Profile updated successfully!"
	msgProfileFailed  = "Failed to update profile"
	msgSaveFailed     = "Could not save your session on this device."

	msgOTPSent           = "OTP sent to your email. It is valid for 10 minutes."
	msgOTPFailed         = "Failed to send OTP"
	msgPasswordReset     = "Password reset successfully! You can now login with your new password."
	msgPasswordResetFail = "Failed to reset password"

	msgNoVerifyToken     = "No verification token provided"
	msgVerified          = "Your email has been verified successfully! You can now login to your account."
	msgVerifyFailed      = "Invalid or expired verification token. Please request a new verification email."
	msgVerifyUnreachable = "Failed to verify email. Please check your internet connection and try again."
)
