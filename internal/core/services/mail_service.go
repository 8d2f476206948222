package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
)

// MailService delivers transactional mail (magic links) through an HTTP
// mail API. Without MAIL_API_URL it degrades to logging the link, which
// is the intended dev behavior.
type MailService struct {
	apiURL  string
	apiKey  string
	enabled bool
}

// NewMailService creates a new mail service
func NewMailService() *MailService {
	apiURL := os.Getenv("MAIL_API_URL")
	return &MailService{
		apiURL:  apiURL,
		apiKey:  os.Getenv("MAIL_API_KEY"),
		enabled: apiURL != "",
	}
}

// IsEnabled checks if mail delivery is enabled
func (s *MailService) IsEnabled() bool {
	return s.enabled
}

// SendMagicLink sends a sign-in link to the given address
func (s *MailService) SendMagicLink(email, link string) error {
	subject := "Votre lien de connexion — La Guilde des Voyageurs"
	body := fmt.Sprintf("Bonjour,\n\nCliquez sur ce lien pour vous connecter : %s\n\nCe lien expire dans une heure.", link)
	return s.send(email, subject, body)
}

// SendApplicationReceived confirms a membership application
func (s *MailService) SendApplicationReceived(email string) error {
	subject := "Candidature reçue — La Guilde des Voyageurs"
	body := "Bonjour,\n\nNous avons bien reçu votre candidature. Elle sera examinée par un administrateur."
	return s.send(email, subject, body)
}

func (s *MailService) send(to, subject, body string) error {
	if !s.enabled {
		log.Printf("📧 [mail disabled] to=%s subject=%q\n%s", to, subject, body)
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"subject": subject,
		"text":    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}
