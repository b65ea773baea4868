package services

import (
	"mindscope/internal/crypto"
	"mindscope/internal/models"
)

// EncryptionService wraps the crypto service with domain-specific methods. Emails,
// chat content and mood notes are encrypted at rest; the email additionally gets a
// blind index so login lookups work without decrypting every row.
type EncryptionService struct {
	crypto *crypto.Service
}

func NewEncryptionService(encryptionKey, blindIndexKey []byte) (*EncryptionService, error) {
	svc, err := crypto.NewService(encryptionKey, blindIndexKey)
	if err != nil {
		return nil, err
	}
	return &EncryptionService{crypto: svc}, nil
}

// EncryptUser encrypts the email and sets its blind index before storing.
func (s *EncryptionService) EncryptUser(user *models.User) error {
	encrypted, blindIndex, err := s.crypto.EncryptWithBlindIndex(user.Email)
	if err != nil {
		return err
	}
	user.Email = encrypted
	user.EmailBlindIndex = blindIndex
	return nil
}

// DecryptUser restores the plaintext email after retrieval.
func (s *EncryptionService) DecryptUser(user *models.User) error {
	email, err := s.crypto.Decrypt(user.Email)
	if err != nil {
		return err
	}
	user.Email = email
	return nil
}

// EmailBlindIndex derives the lookup key for an email address.
func (s *EncryptionService) EmailBlindIndex(email string) string {
	return s.crypto.BlindIndex(email)
}

func (s *EncryptionService) EncryptMessage(msg *models.ChatMessage) error {
	content, err := s.crypto.Encrypt(msg.Content)
	if err != nil {
		return err
	}
	msg.Content = content
	return nil
}

func (s *EncryptionService) DecryptMessage(msg *models.ChatMessage) error {
	content, err := s.crypto.Decrypt(msg.Content)
	if err != nil {
		return err
	}
	msg.Content = content
	return nil
}

func (s *EncryptionService) EncryptMoodLog(log *models.MoodLog) error {
	if log.Note == "" {
		return nil
	}
	note, err := s.crypto.Encrypt(log.Note)
	if err != nil {
		return err
	}
	log.Note = note
	return nil
}

func (s *EncryptionService) DecryptMoodLog(log *models.MoodLog) error {
	if log.Note == "" {
		return nil
	}
	note, err := s.crypto.Decrypt(log.Note)
	if err != nil {
		return err
	}
	log.Note = note
	return nil
}
