package models

import (
	"time"

	"gorm.io/gorm"

	"whistleline/pkg/errors"
)

type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResolved   ContactStatus = "resolved"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved:
		return true
	}
	return false
}

type ContactMessage struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	Name       string        `json:"name" gorm:"size:100"`
	Email      string        `json:"email" gorm:"size:255"`
	Subject    string        `json:"subject" gorm:"size:255"`
	Message    string        `json:"message" gorm:"type:text"`
	IsRead     bool          `json:"is_read"`
	AdminNotes *string       `json:"admin_notes,omitempty" gorm:"type:text"`
	Status     ContactStatus `json:"status" gorm:"size:20;index"`
	CreatedAt  time.Time     `json:"created_at"`
}

func CreateContactMessage(db *gorm.DB, name, email, subject, message string) (*ContactMessage, error) {
	if subject == "" {
		subject = "New contact message"
	}
	msg := &ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  ContactStatusNew,
	}
	if err := db.Create(msg).Error; err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "insert contact message")
	}
	return msg, nil
}

// ListContactMessages filters by status and/or read flag, newest first.
func ListContactMessages(db *gorm.DB, status *ContactStatus, isRead *bool) ([]ContactMessage, error) {
	q := db.Model(&ContactMessage{}).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if isRead != nil {
		q = q.Where("is_read = ?", *isRead)
	}
	var msgs []ContactMessage
	if err := q.Find(&msgs).Error; err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "list contact messages")
	}
	return msgs, nil
}

func GetContactMessage(db *gorm.DB, id uint) (*ContactMessage, error) {
	var msg ContactMessage
	err := db.First(&msg, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.WithCode(errors.CodeNotFound, "message not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "load contact message")
	}
	return &msg, nil
}

func UpdateContactStatus(db *gorm.DB, id uint, status ContactStatus) (*ContactMessage, error) {
	msg, err := GetContactMessage(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(msg).Update("status", status).Error; err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "update contact status")
	}
	return GetContactMessage(db, id)
}

func SetContactRead(db *gorm.DB, id uint, isRead bool) (*ContactMessage, error) {
	msg, err := GetContactMessage(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Model(msg).Update("is_read", isRead).Error; err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "update read flag")
	}
	return GetContactMessage(db, id)
}

func DeleteContactMessage(db *gorm.DB, id uint) error {
	res := db.Delete(&ContactMessage{}, id)
	if res.Error != nil {
		return errors.Wrap(errors.CodePersistence, res.Error, "delete contact message")
	}
	if res.RowsAffected == 0 {
		return errors.WithCode(errors.CodeNotFound, "message not found")
	}
	return nil
}
