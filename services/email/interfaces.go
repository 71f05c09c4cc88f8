package email

type EmailSender interface {
	SendEmail(to, subject, body string) error
	SendReceiptEmail(to string, data ReceiptData) error
}
