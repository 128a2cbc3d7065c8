// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procurex/orders-backend/internal/config"
	"github.com/procurex/orders-backend/internal/models"
	"github.com/procurex/orders-backend/internal/utils"
)

// NotificationService renders and delivers transactional email. With no SMTP
// host configured it logs the message instead of sending, which is what
// development and the test suite run on.
type NotificationService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	return &NotificationService{db: db, cfg: cfg}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<p>Hello {{.Name}},</p>
<p>Please confirm your registration by following the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not register, ignore this message.</p>
`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<p>Hello {{.Name}},</p>
<p>A password reset was requested for your account. Use this token within 24 hours:</p>
<p><code>{{.Token}}</code></p>
<p>If you did not request a reset, ignore this message.</p>
`))

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<p>Hello {{.Name}},</p>
<p>Thank you for your order <strong>{{.OrderID}}</strong>.</p>
<table border="1" cellpadding="4">
  <tr><th>Product</th><th>Shop</th><th>Qty</th><th>Price</th></tr>
  {{range .Items}}
  <tr><td>{{.Product}}</td><td>{{.Shop}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
  {{end}}
</table>
<p>Total: <strong>{{printf "%.2f" .Total}}</strong></p>
`))

var orderStatusTemplate = template.Must(template.New("order_status").Parse(`
<p>Hello {{.Name}},</p>
<p>Your order <strong>{{.OrderID}}</strong> is now <strong>{{.Status}}</strong>.</p>
`))

type orderEmailItem struct {
	Product  string
	Shop     string
	Quantity int
	Price    float64
}

// SendRegistrationConfirmationEmail mails the activation link for a freshly
// registered account.
func (s *NotificationService) SendRegistrationConfirmationEmail(userID uuid.UUID) error {
	user, err := s.loadUser(userID)
	if err != nil {
		return err
	}

	token, err := utils.GenerateConfirmationToken(user.ID)
	if err != nil {
		return fmt.Errorf("failed to generate confirmation token: %w", err)
	}
	link := fmt.Sprintf("%s/v1/auth/confirm?user_id=%s&token=%s",
		s.cfg.Site.BaseURL, user.ID, token)

	body, err := renderTemplate(confirmationTemplate, map[string]interface{}{
		"Name": displayName(user),
		"Link": link,
	})
	if err != nil {
		return err
	}

	return s.send(user.Email, "Confirm your registration", body)
}

func (s *NotificationService) SendPasswordResetEmail(userID uuid.UUID, token string) error {
	user, err := s.loadUser(userID)
	if err != nil {
		return err
	}

	body, err := renderTemplate(passwordResetTemplate, map[string]interface{}{
		"Name":  displayName(user),
		"Token": token,
	})
	if err != nil {
		return err
	}

	return s.send(user.Email, "Password reset", body)
}

// SendOrderConfirmationEmail thanks the customer and lists the positions.
func (s *NotificationService) SendOrderConfirmationEmail(orderID uuid.UUID) error {
	order, user, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}

	body, err := renderTemplate(orderConfirmationTemplate, map[string]interface{}{
		"Name":    displayName(user),
		"OrderID": order.ID.String(),
		"Items":   orderItemsForEmail(order),
		"Total":   order.TotalAmount,
	})
	if err != nil {
		return err
	}

	return s.send(user.Email, "Order received", body)
}

// SendAdminInvoiceEmail notifies the back office of a new order.
func (s *NotificationService) SendAdminInvoiceEmail(orderID uuid.UUID) error {
	order, user, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}

	body, err := renderTemplate(orderConfirmationTemplate, map[string]interface{}{
		"Name":    "team",
		"OrderID": fmt.Sprintf("%s (customer %s)", order.ID, user.Email),
		"Items":   orderItemsForEmail(order),
		"Total":   order.TotalAmount,
	})
	if err != nil {
		return err
	}

	return s.send(s.cfg.Email.AdminEmail, fmt.Sprintf("New order %s", order.ID), body)
}

// SendOrderStatusEmail tells the customer which status their order entered.
func (s *NotificationService) SendOrderStatusEmail(orderID uuid.UUID, status models.OrderStatus) error {
	order, user, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}

	body, err := renderTemplate(orderStatusTemplate, map[string]interface{}{
		"Name":    displayName(user),
		"OrderID": order.ID.String(),
		"Status":  string(status),
	})
	if err != nil {
		return err
	}

	return s.send(user.Email, fmt.Sprintf("Order %s: %s", order.ID, status), body)
}

func (s *NotificationService) loadUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return &user, nil
}

func (s *NotificationService) loadOrder(orderID uuid.UUID) (*models.Order, *models.User, error) {
	var order models.Order
	err := s.db.
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Shop").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, nil, fmt.Errorf("order: %w", ErrNotFound)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", order.UserID).Error; err != nil {
		return nil, nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return &order, &user, nil
}

func (s *NotificationService) send(to, subject, htmlBody string) error {
	if s.cfg.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped (no SMTP host configured)")
		return nil
	}

	from := fmt.Sprintf("%s <%s>", s.cfg.Email.FromName, s.cfg.Email.FromEmail)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, htmlBody)

	addr := s.cfg.Email.SMTPHost + ":" + s.cfg.Email.SMTPPort
	var auth smtp.Auth
	if s.cfg.Email.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.Email.SMTPUsername, s.cfg.Email.SMTPPassword, s.cfg.Email.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.Email.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")
	return nil
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

func displayName(user *models.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Email
}

func orderItemsForEmail(order *models.Order) []orderEmailItem {
	items := make([]orderEmailItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderEmailItem{
			Product:  item.ProductInfo.Product.Name,
			Shop:     item.ProductInfo.Shop.Name,
			Quantity: item.Quantity,
			Price:    item.ProductInfo.Price,
		})
	}
	return items
}
