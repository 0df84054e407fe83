package skills

import (
	"context"
	"fmt"

	"github.com/Sokio8M1/NASDX-Mrk-II/internal/nlu"
	"github.com/Sokio8M1/NASDX-Mrk-II/internal/session"
)

func handleSendMessage(_ context.Context, col *Collaborators, m *nlu.Match, sess *session.Session) ([]string, error) {
	if col.Messenger == nil {
		return []string{col.NotConfigured("messaging")}, nil
	}

	recipient := m.Param("recipient")
	contact, ok := col.Cfg.FindContact(recipient)
	if !ok {
		return []string{fmt.Sprintf("I don't have %s in your contacts, %s.", recipient, col.hon())}, nil
	}

	message := m.Param("message")
	if err := col.Messenger.Send(contact, message); err != nil {
		return nil, fmt.Errorf("send message to %s: %w", contact.Name, err)
	}

	sess.LastContact = contact.Name
	return []string{fmt.Sprintf("Message sent to %s, %s.", contact.Name, col.hon())}, nil
}

func handleSendAnother(_ context.Context, col *Collaborators, m *nlu.Match, sess *session.Session) ([]string, error) {
	if col.Messenger == nil {
		return []string{col.NotConfigured("messaging")}, nil
	}
	if sess.LastContact == "" {
		return []string{fmt.Sprintf("You have not sent any messages recently, %s.", col.hon())}, nil
	}
	contact, ok := col.Cfg.FindContact(sess.LastContact)
	if !ok {
		return []string{fmt.Sprintf("I've lost track of %s in your contacts, %s.", sess.LastContact, col.hon())}, nil
	}

	message := m.Param("message")
	if err := col.Messenger.Send(contact, message); err != nil {
		return nil, fmt.Errorf("send message to %s: %w", contact.Name, err)
	}
	return []string{fmt.Sprintf("Another message sent to %s, %s.", contact.Name, col.hon())}, nil
}
