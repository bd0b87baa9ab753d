package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"lms/config"
	"lms/database"
	"lms/models"
)

// sendEmail delivers a transactional email through SendGrid. Delivery is best
// effort; when no API key is configured the send is skipped.
func sendEmail(toName, toEmail, subject, htmlBody string) error {
	if config.AppConfig.SendGridKey == "" {
		log.Printf("Email to %s skipped: SENDGRID_API_KEY not configured", toEmail)
		return nil
	}

	from := mail.NewEmail(config.AppConfig.EmailSenderName, config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("Failed to send email to %s, response code: %d", toEmail, resp.StatusCode)
		return fmt.Errorf("failed to send email, code: %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the standard HTML shell.
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				You are receiving this email because of activity on your learning account.
			</div>
		</div>
	</body>
	</html>
	`, config.AppConfig.EmailSenderName, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a freshly signed-up user.
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your account has been created. Browse the course catalog and enroll to start learning.</p>
	`, name)
	_ = sendEmail(name, email, "Welcome!", getEmailTemplate("Welcome aboard", body))
}

// SendInstructorApprovedEmail tells an instructor their account went live.
func SendInstructorApprovedEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your instructor account has been approved. You can now log in and create courses.</p>
	`, name)
	_ = sendEmail(name, email, "Instructor account approved", getEmailTemplate("You're approved", body))
}

// SendEnrollmentEmail confirms a new course enrollment.
func SendEnrollmentEmail(userID, courseID uint) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return
	}
	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return
	}

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now enrolled in:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>Good luck with your studies!</p>
	`, user.Name, course.Title)
	_ = sendEmail(user.Name, user.Email, "Enrollment confirmed", getEmailTemplate("Enrollment confirmed", body))
}
