package mail

import (
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailService struct {
	dialer *gomail.Dialer
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	return &MailService{
		dialer: gomail.NewDialer(host, port, user, pass),
	}
}

// SendShareInvite mails the share link and password for a calendar to
// an invitee. The recipient still goes through the normal join flow;
// this only saves the owner the copy-paste.
func (m *MailService) SendShareInvite(to, calendarName, shareLink, sharePassword string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", os.Getenv("SMTP_USER"))
	message.SetHeader("To", to)
	message.SetHeader("Subject", "You have been invited to the calendar \""+calendarName+"\"")
	message.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f5f5f5;">
			<h2 style="color: #333; text-align: center;">Calendar invitation</h2>
			<p>Hello,</p>
			<p>You have been invited to join the shared calendar <b>`+calendarName+`</b>.</p>
			<p style="text-align: center;"><a href="`+shareLink+`" style="display: inline-block; padding: 10px 20px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 5px;">Open shared calendar</a></p>
			<p>Password: <b>`+sharePassword+`</b></p>
			<p>Sign in (or register first), open the link and enter the password to add the calendar to your list.</p>
		</div>
	`)
	return m.dialer.DialAndSend(message)
}
