// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
)

const (
	mixedBoundary       = "===============0987654321098765432=="
	alternativeBoundary = "===============1234567890123456789=="
)

// buildEmailMessage builds the complete email message with headers and
// multipart content. When attachmentPath is set the message is multipart/mixed
// with the alternative body parts first and the base64-encoded attachment
// after them.
func buildEmailMessage(recipient, subject, htmlContent, textContent, attachmentPath string, config SMTPConfig) (string, error) {
	var message strings.Builder

	// Email headers
	message.WriteString(fmt.Sprintf("From: %s\r\n", config.From))
	message.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")

	if attachmentPath == "" {
		message.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", alternativeBoundary))
		message.WriteString("\r\n")
		writeAlternativeParts(&message, htmlContent, textContent)
		message.WriteString(fmt.Sprintf("--%s--\r\n", alternativeBoundary))
		return message.String(), nil
	}

	attachment, err := os.ReadFile(attachmentPath)
	if err != nil {
		return "", fmt.Errorf("failed to read attachment: %w", err)
	}

	message.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", mixedBoundary))
	message.WriteString("\r\n")

	// Body as a nested multipart/alternative part
	message.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
	message.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", alternativeBoundary))
	message.WriteString("\r\n")
	writeAlternativeParts(&message, htmlContent, textContent)
	message.WriteString(fmt.Sprintf("--%s--\r\n", alternativeBoundary))

	// PDF attachment part
	fileName := filepath.Base(attachmentPath)
	message.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
	message.WriteString("Content-Type: application/pdf\r\n")
	message.WriteString("Content-Transfer-Encoding: base64\r\n")
	message.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", fileName))
	message.WriteString("\r\n")
	message.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(attachment)))
	message.WriteString("\r\n")

	// End boundary
	message.WriteString(fmt.Sprintf("--%s--\r\n", mixedBoundary))

	return message.String(), nil
}

// writeAlternativeParts writes the text and HTML body parts.
func writeAlternativeParts(message *strings.Builder, htmlContent, textContent string) {
	// Plain text part
	message.WriteString(fmt.Sprintf("--%s\r\n", alternativeBoundary))
	message.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(textContent)
	message.WriteString("\r\n")

	// HTML part
	message.WriteString(fmt.Sprintf("--%s\r\n", alternativeBoundary))
	message.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlContent)
	message.WriteString("\r\n")
}

// wrapBase64 folds base64 content at 76 characters per RFC 2045.
func wrapBase64(encoded string) string {
	const lineLen = 76
	var wrapped strings.Builder
	for len(encoded) > lineLen {
		wrapped.WriteString(encoded[:lineLen])
		wrapped.WriteString("\r\n")
		encoded = encoded[lineLen:]
	}
	wrapped.WriteString(encoded)
	return wrapped.String()
}

// sendEmailMessage sends a pre-built email message via SMTP
func sendEmailMessage(recipient, message string, config SMTPConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	err := smtp.SendMail(addr, auth, config.From, []string{recipient}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
