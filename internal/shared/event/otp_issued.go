package event

const OTPIssuedDestination string = "otp_issued"
const OTPIssuedConsumerNotification string = "otp_issued_notification"

// OTPIssuedMessage asks the notification worker to deliver a login code.
type OTPIssuedMessage struct {
	Subject   string `json:"subject"`
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}
